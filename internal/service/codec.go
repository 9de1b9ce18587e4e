package service

import (
	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// jsonCodec carries plain Go request and response structs over the Connect
// protocol. It registers under "json" so it replaces the protobuf JSON codec.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

// JSONCodec returns the codec every duesbook handler and client must use.
func JSONCodec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
