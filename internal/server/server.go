package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/config"
	"idea-builder-backend/internal/logger"
	"idea-builder-backend/internal/steps"
	"idea-builder-backend/internal/types"
	"idea-builder-backend/internal/wizard"
)

const maxBodyBytes = 1 << 20

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	log      *logger.Logger
	registry *steps.Registry
	gateway  *completion.Gateway
	wizard   *wizard.Service
}

func NewServer(cfg config.Config, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	registry, err := steps.Open(cfg.StepsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	if cfg.StepsFile != "" {
		log.Info("loaded step table override", "path", cfg.StepsFile)
	}

	gw := NewGateway(cfg, log)
	log.Info("completion gateway ready", "mode", gw.Mode(), "model", cfg.Model)

	store := wizard.NewStore(registry, cfg.SessionTTL)
	svc := wizard.NewService(store, registry, gw, log.With("component", "wizard"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		cfg:      cfg,
		log:      log,
		registry: registry,
		gateway:  gw,
		wizard:   svc,
	}
	s.routes()
	return s, nil
}

// NewGateway builds the completion gateway the configuration asks for.
func NewGateway(cfg config.Config, log *logger.Logger) *completion.Gateway {
	opts := completion.Options{Mock: cfg.MockEnabled(), Logger: log, Timeout: cfg.Timeout}
	if !opts.Mock {
		opts.Live = completion.NewOpenAIProvider(completion.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	}
	return completion.New(opts)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/steps", s.handleSteps)
	s.router.Post("/api/chat", s.handleChat)
	// Wizard UI
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/builder", http.StatusFound)
	})
	s.router.Get("/builder", s.handleBuilder)
	s.router.Post("/builder/step", s.handleSelectStep)
	s.router.Post("/builder/submit", s.handleSubmit)
	s.router.Post("/builder/reset", s.handleReset)
}

func (s *Server) Router() http.Handler {
	return otelhttp.NewHandler(s.router, "builder-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok", Mode: s.gateway.Mode()})
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.StepsResponse{Steps: s.registry.Steps()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages is required")
		return
	}

	// a client disconnect does not abort the provider call
	res := s.gateway.GenerateReply(context.WithoutCancel(r.Context()), req.Messages)
	if res.OK() {
		writeJSON(w, http.StatusOK, types.ChatResponse{Reply: res.Reply})
		return
	}
	status := http.StatusBadGateway
	if s.cfg.ErrorsAsOK {
		status = http.StatusOK
	}
	writeJSON(w, status, types.ChatResponse{Error: res.Err})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
