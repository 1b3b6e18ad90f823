// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrViewClosed is returned when the page view that requested a load went
// away before the load finished. The loaded data is discarded.
var ErrViewClosed = errors.New("view closed before load completed")

// Load runs fn under the view's context and discards the result if the
// context ended while fn was running. ctx is the view's lifetime token:
// the HTTP request context for a page request.
func Load[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrViewClosed, ctxErr)
	}
	return v, err
}
