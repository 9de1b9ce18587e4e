package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/validation"
)

// unary builds a Connect handler that validates the request message before
// calling fn and maps any returned error onto a Connect code.
func unary[Req, Res any](
	procedure string,
	logger *slog.Logger,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	return connect.NewUnaryHandler(procedure, func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
		if err := validation.ValidateStruct(req.Msg); err != nil {
			return nil, toConnectError(logger, procedure, err)
		}
		res, err := fn(ctx, req)
		if err != nil {
			return nil, toConnectError(logger, procedure, err)
		}
		return res, nil
	}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec())}, opts...)
}
