package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"quizkit/internal/logger"
)

const maxLoggedBodyBytes = 512

// statusRecorder captures the status, size and a bounded prefix of the
// response body so failed requests can be logged with their error payload.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	maxLogBytes  int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(p) > room {
			r.logBody.Write(p[:room])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}

	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    maxLoggedBodyBytes,
			}
			next.ServeHTTP(recorder, r)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"bytes", recorder.bytesWritten,
				"duration", time.Since(started),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if recorder.statusCode >= http.StatusBadRequest {
				fields = append(fields, "body", recorder.logBody.String(), "truncated", recorder.truncated)
				log.Warn("request failed", fields...)
				return
			}
			log.Debug("request served", fields...)
		})
	}
}
