package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/flashid/volunteer-bot/internal/bot"
	"github.com/flashid/volunteer-bot/internal/telegram"
)

// Dispatcher handles parsed updates and help-request broadcasts.
// *bot.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, upd *telegram.Update) (telegram.Outcome, error)
	BroadcastHelpRequest(ctx context.Context, req bot.HelpRequest) (int, error)
}

// Webhooks is the slice of the gateway the HTTP surface needs.
// *telegram.Gateway satisfies it.
type Webhooks interface {
	RegisterWebhook(url string) error
	Self() (tgbotapi.User, error)
}

// Server exposes the webhook, health, and broadcast-trigger endpoints.
type Server struct {
	dispatcher     Dispatcher
	webhooks       Webhooks
	webhookBaseURL string
	environment    string
	validate       *validator.Validate
	log            *zap.Logger
}

func New(dispatcher Dispatcher, webhooks Webhooks, webhookBaseURL, environment string, log *zap.Logger) *Server {
	return &Server{
		dispatcher:     dispatcher,
		webhooks:       webhooks,
		webhookBaseURL: webhookBaseURL,
		environment:    environment,
		validate:       validator.New(),
		log:            log,
	}
}

// Router builds the chi router for all routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/webhook", s.handleWebhook)
	r.Get("/setWebhook", s.handleSetWebhook)
	r.Get("/health", s.handleHealth)
	r.Post("/rasp", s.handleRasp)
	return r
}

// handleWebhook receives platform updates. Unparseable bodies are the
// client's fault (400); updates nobody can answer get a 200 with a
// notice so the platform does not redeliver them forever.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var raw tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid Request Body", http.StatusBadRequest)
		return
	}

	upd, err := telegram.ParseUpdate(&raw)
	if err != nil {
		s.log.Info("unhandled update shape", zap.Error(err))
		s.writeNoResponse(w)
		return
	}

	outcome, err := s.dispatcher.Dispatch(r.Context(), upd)
	switch {
	case errors.Is(err, bot.ErrNoResponse):
		s.writeNoResponse(w)
	case err != nil:
		s.log.Error("dispatch failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, telegram.Outcome{
			Success: false,
			Data:    &telegram.OutcomeData{Error: err.Error()},
		})
	default:
		s.writeJSON(w, http.StatusOK, outcome)
	}
}

func (s *Server) handleSetWebhook(w http.ResponseWriter, r *http.Request) {
	webhookURL := s.webhookBaseURL + "/webhook"
	if err := s.webhooks.RegisterWebhook(webhookURL); err != nil {
		s.log.Error("register webhook failed", zap.Error(err))
		http.Error(w, "failed to register webhook", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"webhook_url": webhookURL,
		"environment": s.environment,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("which") == "telegram" {
		self, err := s.webhooks.Self()
		if err != nil {
			s.log.Error("telegram health check failed", zap.Error(err))
			http.Error(w, "telegram unreachable", http.StatusBadGateway)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"id":         self.ID,
			"is_bot":     self.IsBot,
			"first_name": self.FirstName,
			"username":   self.UserName,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello, Health!"))
}

// handleRasp is the broadcast trigger fed by PWID devices.
func (s *Server) handleRasp(w http.ResponseWriter, r *http.Request) {
	var req bot.HelpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request Body", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, "Missing Required Fields", http.StatusBadRequest)
		return
	}

	if _, err := s.dispatcher.BroadcastHelpRequest(r.Context(), req); err != nil {
		s.log.Error("broadcast help request failed", zap.Error(err))
		http.Error(w, "failed to broadcast help request", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("DUCK"))
}

func (s *Server) writeNoResponse(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, telegram.Outcome{
		Success: false,
		Data:    &telegram.OutcomeData{Error: "no response"},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("write response failed", zap.Error(err))
	}
}
