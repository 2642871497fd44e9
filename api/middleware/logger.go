package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/core/claims"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			fields := logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteaddr": r.RemoteAddr,
			}
			if rid := ContextRequestID(ctx); rid != "" {
				fields["req_id"] = rid
			}
			if clm, err := claims.Get(ctx); err == nil {
				fields["owner"] = clm.Owner
			}
			log := log.WithFields(fields)

			log.Debug("started")
			start := time.Now().UTC()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			log.WithFields(logrus.Fields{
				"statuscode": lw.Status(),
				"bytes":      lw.BytesWritten(),
				"since":      time.Since(start).Nanoseconds(),
			}).Info("completed")
			return err
		}
		return h
	}
	return m
}
