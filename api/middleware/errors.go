package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs the error a handler returns and renders it. Errors carrying
// a response are rendered with it, anything else becomes a 500.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			body, code, ok := weberr.Response(err)
			if !ok {
				code = http.StatusInternalServerError
				body = weberr.ErrorResponse{Error: http.StatusText(code)}
			}

			if code >= http.StatusInternalServerError {
				log.WithFields(fields).Error("ERROR")
			} else {
				log.WithFields(fields).Warn("request failed")
			}

			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
