package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecompute(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{name: "success", err: nil, result: "ok"},
		{name: "failure", err: errors.New("boom"), result: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecomputeTotal.WithLabelValues(tt.result))
			RecordRecompute(3*time.Millisecond, tt.err)
			after := testutil.ToFloat64(RecomputeTotal.WithLabelValues(tt.result))
			if after != before+1 {
				t.Errorf("duesbook_recompute_total{result=%q} = %v, want %v", tt.result, after, before+1)
			}
		})
	}
}

func TestRecordRPC(t *testing.T) {
	procedure := "/duesbook.v1.LedgerService/GetPeriod"
	before := testutil.ToFloat64(RPCRequestsTotal.WithLabelValues(procedure, "not_found"))

	RecordRPC(procedure, "not_found", 10*time.Millisecond)

	after := testutil.ToFloat64(RPCRequestsTotal.WithLabelValues(procedure, "not_found"))
	if after != before+1 {
		t.Errorf("duesbook_rpc_requests_total = %v, want %v", after, before+1)
	}
	if n := testutil.CollectAndCount(RPCDuration, "duesbook_rpc_duration_seconds"); n == 0 {
		t.Error("expected duesbook_rpc_duration_seconds to have series")
	}
}
