package common

import (
	"context"
	"errors"

	"github.com/avast/retry-go/v4"

	pkgHTTP "github.com/futig/proposal-backend/pkg/http"
	pkgRetry "github.com/futig/proposal-backend/internal/pkg/retry"
)

// DoWithRetry runs fn with the connector retry policy. Client errors (4xx)
// are not retried since repeating the same request cannot succeed.
func DoWithRetry[T any](ctx context.Context, cfg *pkgRetry.RetryConfig, fn func() (T, error)) (T, error) {
	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var httpErr *pkgHTTP.HTTPError
			if errors.As(err, &httpErr) {
				return httpErr.StatusCode >= 500
			}
			return true
		}),
	)

	return retry.DoWithData(fn, opts...)
}
