package handler

import (
	"net/http"
	"time"

	"nasa/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		rec := metrics.NewStatusRecorder(w)

		next.ServeHTTP(rec, r)

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"route":    metrics.RoutePath(r),
			"status":   rec.Status,
			"duration": time.Since(start).String(),
		}).Info("request served")
	})
}

// limit rejects requests once the shared bucket is empty. The NASA key quota is
// global, so is the bucket.
func limit(l *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if !l.Allow() {
				logrus.Warnf("rate limit exceeded on %s", r.URL.Path)
				sendResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
