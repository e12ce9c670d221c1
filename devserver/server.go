// Package devserver is a local stand-in for the chat backend. It serves the
// same routes the client talks to with a deterministic replier.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	apologyText = "I'm sorry, I encountered an error processing your request. Please try again later."

	// Matches the request id layout of the original backend
	requestIDLayout = "20060102150405.000000"
)

// Replier produces the answer for a user message
type Replier func(ctx context.Context, message string) (string, error)

// Echo replies with the message it was given
func Echo(_ context.Context, message string) (string, error) {
	return "You said: " + message, nil
}

type Option func(*Server)

func WithReplier(r Replier) Option {
	return func(s *Server) {
		if r != nil {
			s.replier = r
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeedbackLog sets where feedback lines are appended
func WithFeedbackLog(w io.Writer) Option {
	return func(s *Server) {
		if w != nil {
			s.feedback = w
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

type Server struct {
	replier Replier
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	feedback io.Writer
}

func New(opts ...Option) *Server {
	s := &Server{
		replier:  Echo,
		logger:   zap.NewNop(),
		now:      time.Now,
		feedback: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router wires the backend routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Post("/chat", s.handleChat)
		api.Post("/feedback", s.handleFeedback)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev backend listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down dev backend: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"response": apologyText,
			"error":    "invalid request body",
		})
		return
	}

	message := strings.TrimSpace(*payload.Message)
	if message == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"response": apologyText,
			"error":    "message is required",
		})
		return
	}

	requestID := s.now().Format(requestIDLayout)
	requestID = strings.Replace(requestID, ".", "", 1)

	answer, err := s.replier(r.Context(), message)
	if err != nil {
		s.logger.Error("replier failed", zap.String("request_id", requestID), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"response": apologyText,
			"error":    err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"response":  answer,
		"requestId": requestID,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MessageID string `json:"messageId"`
		Feedback  string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MessageID == "" {
		respondError(w, http.StatusBadRequest, "messageId is required")
		return
	}
	if payload.Feedback != "up" && payload.Feedback != "down" {
		respondError(w, http.StatusBadRequest, "feedback must be up or down")
		return
	}

	s.logger.Info("feedback received",
		zap.String("message_id", payload.MessageID),
		zap.String("feedback", payload.Feedback))

	if err := s.storeFeedback(payload.MessageID, payload.Feedback); err != nil {
		s.logger.Error("failed to store feedback", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) storeFeedback(messageID, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.feedback, "%s,%s,%s\n", s.now().Format(time.RFC3339), messageID, feedback)
	return err
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
