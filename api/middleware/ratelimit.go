package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
	"github.com/irsalhamdi/shop-state/rate"
)

// RateLimit rejects requests of a client whose bucket is empty. Clients are
// told apart by remote host, since a session owner is minted for every
// request that comes without a cookie.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			client := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				client = host
			}

			if !lim.Check(client) {
				err := errors.New("rate limit exceeded")
				return weberr.Invalid(err, http.StatusTooManyRequests, weberr.WithField("client", client))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
