package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	_ "recipebook/docs"
	"recipebook/pkg/otel"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// newRouter builds the HTTP surface. /metrics is mounted only when
// exposeMetrics is set.
func newRouter(a *api, tracer trace.Tracer, exposeMetrics bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, traceMiddleware(tracer), a.observeMiddleware)

	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	r.HandleFunc("/recipes", a.listRecipesHandler).Methods(http.MethodGet)
	r.HandleFunc("/recipes", a.createRecipeHandler).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{name}", a.getRecipeHandler).Methods(http.MethodGet)

	if exposeMetrics {
		r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	}
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}

// requestIDMiddleware propagates or assigns an X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func traceMiddleware(tracer trace.Tracer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.InjectTracing(r.Context(), tracer, propagation.HeaderCarrier(r.Header))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// observeMiddleware records request metrics and writes the access log.
func (a *api) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := time.Since(start)
		a.metrics.Requests.With("route", route, "method", r.Method, "code", strconv.Itoa(rec.status)).Add(1)
		a.metrics.Latency.With("route", route, "method", r.Method).Observe(elapsed.Seconds())

		reqID, _ := r.Context().Value(requestIDKey{}).(string)
		a.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
			"request_id", reqID,
		)
	})
}
