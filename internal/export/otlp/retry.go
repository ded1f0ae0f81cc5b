package otlp

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Transport-level retry policy for the gRPC exporter: up to three
// attempts with exponential backoff doubling from 2s capped at 10s, on
// the fixed set of retryable gRPC status codes. This is transport-layer
// retry; the batch processor above never retries a batch.
const (
	retryMaxAttempts     = 3
	retryInitialInterval = 2 * time.Second
	retryMaxInterval     = 10 * time.Second
)

// retryableCode reports whether a gRPC status code is worth retrying.
func retryableCode(c codes.Code) bool {
	switch c {
	case codes.Canceled,
		codes.DeadlineExceeded,
		codes.ResourceExhausted,
		codes.Aborted,
		codes.OutOfRange,
		codes.Unavailable,
		codes.DataLoss:
		return true
	default:
		return false
	}
}

// withRetry runs fn under the transport retry policy. Non-retryable
// failures are returned immediately; context cancellation always wins.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.Multiplier = 2
	policy.MaxElapsedTime = 0

	attempt := func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if s, ok := status.FromError(err); ok && retryableCode(s.Code()) {
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(attempt, backoff.WithContext(
		backoff.WithMaxRetries(policy, retryMaxAttempts-1), ctx))
}
