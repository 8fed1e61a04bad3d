package contact

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ams-law/goldsite/config"
)

// Handler serves the contact relay endpoint.
type Handler struct {
	Mailer        Mailer
	SubjectPrefix string
	Footer        string
	MaxBodyBytes  int64
}

// NewHandler creates a relay handler for the given mailer.
func NewHandler(m Mailer, cfg config.ContactConfig) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}
	return &Handler{
		Mailer:        m,
		SubjectPrefix: cfg.SubjectPrefix,
		Footer:        cfg.Footer,
		MaxBodyBytes:  maxBody,
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("contact response write failed", "error", err)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: MsgMethod})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: MsgBadRequest})
		return
	}
	sub = sub.Normalize()
	if err := sub.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMissingFields})
		return
	}

	html, err := RenderEmail(sub, h.SubjectPrefix, h.Footer)
	if err != nil {
		slog.Error("rendering contact email", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgServer, Detail: err.Error()})
		return
	}

	err = h.Mailer.Send(r.Context(), Message{
		ReplyTo: sub.Email,
		Subject: SubjectLine(h.SubjectPrefix, sub.Subject),
		HTML:    html,
	})
	if err != nil {
		var up *UpstreamError
		if errors.As(err, &up) {
			slog.Warn("mail api rejected contact", "status", up.Status)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgSendFailed, Detail: up.Body})
			return
		}
		slog.Error("sending contact email", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgServer, Detail: err.Error()})
		return
	}

	slog.Info("contact relayed", "subject", sub.Subject)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
