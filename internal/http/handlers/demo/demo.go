package demo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalos/website/internal/demochat"
	"github.com/vitalos/website/internal/http/response"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	Now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{Now: time.Now}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/chat", h.chat) // {message}
	r.Get("/suggestions", h.suggestions)
	r.Post("/export", h.export) // {messages}
	return r
}

type chatIn struct {
	Message string `json:"message"`
}

type chatOut struct {
	Reply         string `json:"reply"`
	TypingDelayMs int64  `json:"typingDelayMs"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var in chatIn
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		response.BadRequest(w, "Message is required")
		return
	}

	reply := demochat.Reply(msg)
	response.WriteJSON(w, http.StatusOK, chatOut{
		Reply:         reply,
		TypingDelayMs: demochat.TypingDelay(reply).Milliseconds(),
	})
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string][]string{
		"suggestions": demochat.Suggestions(),
	})
}

type exportIn struct {
	Messages []demochat.Message `json:"messages"`
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var in exportIn
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	name := demochat.TranscriptFilename(h.Now())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(demochat.Transcript(in.Messages)))
}
