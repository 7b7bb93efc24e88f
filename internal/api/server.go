package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/moodreel/backend/internal/engine"
	"github.com/moodreel/backend/internal/filter"
	"github.com/moodreel/backend/internal/metrics"
	"github.com/moodreel/backend/internal/recommend"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-ID"

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux

	httpServer *http.Server
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Handle("/api/v1/recommend", s.instrument("/api/v1/recommend", s.handleRecommend))
	s.Router.Handle("/api/v1/genres", s.instrument("/api/v1/genres", s.handleGenres))
	s.Router.Handle("/api/v1/status", s.instrument("/api/v1/status", s.handleStatus))
	s.Router.Handle("/metrics", promhttp.Handler())
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	cfg := s.Engine.Config.Server
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Starting API Server on %s", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Logger.Info("Shutting down API Server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Requests & Responses

type RecommendRequest struct {
	Prompt   string   `json:"prompt"`
	N        *int     `json:"n,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Seen     []string `json:"seen,omitempty"`
	SeenText string   `json:"seen_text,omitempty"`
}

type RecommendResponse struct {
	Status  engine.Status              `json:"status"`
	Message string                     `json:"message,omitempty"`
	Count   int                        `json:"count"`
	Results []recommend.Recommendation `json:"results"`
}

type GenresResponse struct {
	Genres []string `json:"genres"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Source         string `json:"source"`
	Movies         int    `json:"movies"`
	VocabularySize int    `json:"vocabulary_size"`
	QueriesServed  int64  `json:"queries_served"`
	Uptime         string `json:"uptime"`
}

// Handlers

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	n := s.Engine.Config.Recommend.DefaultN
	if req.N != nil {
		n = *req.N
	}
	seen := append(append([]string(nil), req.Seen...), filter.ParseSeen(req.SeenText)...)

	result, err := s.Engine.Suggest(r.Context(), engine.Request{
		Prompt: req.Prompt,
		N:      n,
		Genres: req.Genres,
		Seen:   seen,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidRequest) {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		s.Logger.WithError(err).WithField("request_id", w.Header().Get(RequestIDHeader)).Error("Recommendation failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	jsonResponse(w, http.StatusOK, RecommendResponse{
		Status:  result.Status,
		Message: result.Status.Message(),
		Count:   len(result.Recommendations),
		Results: result.Recommendations,
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}
	jsonResponse(w, http.StatusOK, GenresResponse{Genres: s.Engine.Genres()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}
	idx := s.Engine.Index
	jsonResponse(w, http.StatusOK, StatusResponse{
		Source:         idx.Source,
		Movies:         idx.Len(),
		VocabularySize: idx.VocabularySize(),
		QueriesServed:  s.Engine.Stats.QueriesServed.Load(),
		Uptime:         s.Engine.Uptime().Round(time.Second).String(),
	})
}

// Middleware

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument tags the response with a request id, then logs and records
// metrics for the request.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		elapsed := time.Since(start)
		metrics.RecordAPIRequest(r.Method, endpoint, rec.status, elapsed)
		s.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       endpoint,
			"status":     rec.status,
			"elapsed":    elapsed.String(),
		}).Info("Request served")
	})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
