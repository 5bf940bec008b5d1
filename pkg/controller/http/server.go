package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/interfaces"
	"github.com/museum-lab/engagedesk/pkg/repository/memory"
	"github.com/museum-lab/engagedesk/pkg/usecase"
	"github.com/museum-lab/engagedesk/pkg/utils/errutil"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
	"github.com/museum-lab/engagedesk/pkg/utils/safe"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	proxyClient interfaces.BoardClient
}

type Options func(*Server)

// WithProxyClient enables the board request proxy endpoint. Without it the
// proxy reports the missing server-side credential.
func WithProxyClient(client interfaces.BoardClient) Options {
	return func(s *Server) {
		s.proxyClient = client
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Post("/slot", s.handleSetSlot)
				r.Post("/selection", s.handleSetSelection)
				r.Post("/engagement", s.handleSelectEngagement)
				r.Post("/submit", s.handleSubmit)
				r.Post("/reset", s.handleReset)
			})
		})

		// The proxy handles its own method check so non-POST gets 405, not
		// chi's 404.
		r.HandleFunc("/monday", s.handleProxy)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// errorBody is the error shape of every API endpoint: the machine-readable
// kind plus the single user-facing message.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps an error onto the HTTP status its kind dictates and
// writes the standard error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	status := http.StatusInternalServerError
	kind := usecase.KindOf(err)
	switch {
	case errors.Is(err, memory.ErrSessionNotFound):
		status = http.StatusNotFound
	case kind == usecase.KindValidation, kind == usecase.KindRemote:
		status = http.StatusBadRequest
	case kind == usecase.KindNetwork:
		status = http.StatusBadGateway
	}

	errutil.Handle(ctx, err, "request failed")
	respondJSON(ctx, w, status, errorBody{
		Error:   string(kind),
		Message: usecase.UserMessage(err),
	})
}
