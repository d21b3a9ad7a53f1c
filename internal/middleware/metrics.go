package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/metrics"
)

type metricsInterceptor struct{}

// MetricsInterceptor records the duration and status code of every unary call
// and server stream in metrics.RPCDuration.
func MetricsInterceptor() connect.Interceptor {
	return metricsInterceptor{}
}

func (metricsInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		observe(req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (metricsInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (metricsInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		err := next(ctx, conn)
		observe(conn.Spec().Procedure, start, err)
		return err
	}
}

func observe(procedure string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	metrics.RPCDuration.WithLabelValues(procedure, code).Observe(time.Since(start).Seconds())
}
