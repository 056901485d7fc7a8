package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/acq-directory/pkg/httpapi"
)

type loggerKey struct{}

type LoggerOptions struct {
	LogResponseBody bool
	MaxBodyLength   int

	RequestIDHeader string
	RealIPHeader    string
	// Paths with one of these prefixes get a JSON envelope when a handler panics.
	APIPrefixes []string
	Repanic     bool
}

func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		LogResponseBody: false,
		MaxBodyLength:   512,
		RequestIDHeader: "X-Request-ID",
		RealIPHeader:    "X-Real-IP",
		APIPrefixes:     []string{"/directory/api"},
	}
}

// LoggerFrom returns the request-scoped entry installed by WithLogger.
func LoggerFrom(ctx context.Context) (*logrus.Entry, bool) {
	entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry)
	return entry, ok
}

type responseCaptureWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
	body          *bytes.Buffer
	maxBody       int
}

func (w *responseCaptureWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

// Status returns the HTTP status code
func (w *responseCaptureWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *responseCaptureWriter) Write(b []byte) (int, error) {
	if !w.statusWritten {
		w.WriteHeader(http.StatusOK)
	}
	if w.body != nil && w.body.Len() < w.maxBody {
		room := w.maxBody - w.body.Len()
		if len(b) < room {
			room = len(b)
		}
		w.body.Write(b[:room])
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseCaptureWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *responseCaptureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("underlying ResponseWriter does not implement http.Hijacker")
}

func wrapResponseWriter(w http.ResponseWriter, opts LoggerOptions) *responseCaptureWriter {
	rw := &responseCaptureWriter{ResponseWriter: w}
	if opts.LogResponseBody {
		rw.body = &bytes.Buffer{}
		rw.maxBody = opts.MaxBodyLength
	}
	return rw
}

func getRealIP(r *http.Request, opts LoggerOptions) string {
	if opts.RealIPHeader != "" {
		if ip := r.Header.Get(opts.RealIPHeader); ip != "" {
			return ip
		}
	}
	return r.RemoteAddr
}

func getRequestID(r *http.Request, opts LoggerOptions) string {
	if opts.RequestIDHeader != "" {
		if id := r.Header.Get(opts.RequestIDHeader); id != "" {
			return id
		}
	}
	return uuid.New().String()
}

func isAPIPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

var tracer = otel.Tracer("acq-directory-middleware")

func TracedMiddleware(name string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(
				r.Context(),
				"middleware."+name,
				trace.WithAttributes(
					attribute.String("middleware.name", name),
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
				),
			)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func formatHeaders(h http.Header) map[string]string {
	headers := make(map[string]string)
	for key, values := range h {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return headers
}

// WithLogger opens the root span of every request, tags it with a request id,
// logs start and completion and recovers handler panics.
func WithLogger(logger *logrus.Logger, opts LoggerOptions) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := getRequestID(r, opts)
			realIP := getRealIP(r, opts)

			fieldsLogger := logger.WithFields(logrus.Fields{
				"request-id": requestID,
				"path":       r.URL.Path,
				"method":     r.Method,
			})
			fieldsLogger.WithFields(logrus.Fields{
				"host":       r.Host,
				"ip":         realIP,
				"user-agent": r.UserAgent(),
				"query":      r.URL.RawQuery,
			}).Debug("request started")

			propagator := propagation.TraceContext{}
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(
				ctx,
				"http.request",
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", r.URL.Path),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.request_id", requestID),
					attribute.String("net.peer.ip", realIP),
				),
			)
			defer span.End()

			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))
			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set("X-Trace-Id", sc.TraceID().String())
				fieldsLogger = fieldsLogger.WithField("trace-id", sc.TraceID().String())
			}
			w.Header().Set("X-Request-Id", requestID)

			ctx = httpapi.WithRequestID(ctx, requestID)
			ctx = context.WithValue(ctx, loggerKey{}, fieldsLogger)

			wrapped := wrapResponseWriter(w, opts)

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				fieldsLogger.WithFields(logrus.Fields{
					"panic":    recovered,
					"stack":    string(debug.Stack()),
					"ip":       realIP,
					"duration": time.Since(start),
				}).Error("panic recovered in request handler")

				if !wrapped.statusWritten {
					if isAPIPath(r.URL.Path, opts.APIPrefixes) {
						_ = httpapi.WriteError(wrapped, http.StatusInternalServerError, httpapi.CodeInternal, "internal server error",
							map[string]string{"request_id": requestID, "path": r.URL.Path})
					} else {
						http.Error(wrapped, "Internal Server Error", http.StatusInternalServerError)
					}
				}
				if opts.Repanic {
					panic(recovered)
				}
			}()

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			statusCode := wrapped.Status()
			duration := time.Since(start)
			entry := fieldsLogger.WithFields(logrus.Fields{
				"duration":         duration,
				"status-code":      statusCode,
				"status-class":     statusCode / 100,
				"response-headers": formatHeaders(wrapped.Header()),
			})
			if statusCode >= http.StatusInternalServerError {
				entry.Warn("request completed")
			} else {
				entry.Info("request completed")
			}

			span.SetAttributes(
				attribute.Int64("http.request_duration_ms", duration.Milliseconds()),
				attribute.Int("http.status_code", statusCode),
			)

			if wrapped.body != nil && strings.Contains(wrapped.Header().Get("Content-Type"), "application/json") {
				var parsed interface{}
				if err := json.Unmarshal(wrapped.body.Bytes(), &parsed); err == nil {
					fieldsLogger.WithField("response-body", parsed).Debug("JSON response-body captured")
				} else {
					fieldsLogger.WithField("response-body", wrapped.body.String()).Debug("response-body captured")
				}
			}
		})
	}
}
