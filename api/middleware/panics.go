package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
)

// Panics recovers a panicking handler and turns the panic into an error
// carrying the stack trace.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = weberr.InternalError(
						fmt.Errorf("panic: %v", rec),
						weberr.WithField("trace", string(debug.Stack())),
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
