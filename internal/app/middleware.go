package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Tag every request with a trace id and log its outcome
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			traceId := req.Header.Get("X-Trace-Id")
			if traceId == "" {
				traceId = uuid.NewString()
			}
			w.Header().Set("X-Trace-Id", traceId)

			start := time.Now()
			next.ServeHTTP(w, req)
			log.WithFields(log.Fields{
				"traceId":  traceId,
				"method":   req.Method,
				"path":     req.URL.Path,
				"duration": time.Since(start),
			}).Debug("request handled")
		})
	})
}
