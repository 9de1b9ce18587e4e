package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/metrics"
)

// callInfo is filled in by interceptors further down the chain.
type callInfo struct {
	tenantID string
}

const callInfoKey contextKey = "call_info"

func setCallTenant(ctx context.Context, tenantID string) {
	if info, ok := ctx.Value(callInfoKey).(*callInfo); ok {
		info.tenantID = tenantID
	}
}

// LoggingInterceptor returns a Connect interceptor that logs and counts every
// RPC call. Install it outside RequireAuth so rejected calls are counted too.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			info := &callInfo{tenantID: GetTenantID(ctx)}
			resp, err := next(context.WithValue(ctx, callInfoKey, info), req)
			tenantID := info.tenantID

			duration := time.Since(start)
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RecordRPC(procedure, code, duration)

			attrs := []any{
				"procedure", procedure,
				"tenant_id", tenantID,
				"duration_ms", duration.Milliseconds(),
			}
			if err == nil {
				logger.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
				logger.Warn("RPC error", append(attrs, "code", code, "error", connectErr.Message())...)
			} else {
				logger.Error("RPC error", append(attrs, "code", code, "error", err)...)
			}
			return resp, err
		}
	}
}
