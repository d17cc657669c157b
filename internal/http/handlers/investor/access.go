package investor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalos/website/internal/accesscode"
	"github.com/vitalos/website/internal/domain"
	"github.com/vitalos/website/internal/emails"
	"github.com/vitalos/website/internal/http/middleware"
	"github.com/vitalos/website/internal/http/response"
	"github.com/vitalos/website/internal/platform/mailer"
	"github.com/vitalos/website/pkg/config"
	"github.com/vitalos/website/pkg/events"
	"github.com/vitalos/website/pkg/logger"
	"github.com/vitalos/website/pkg/metrics"
)

const maxBodyBytes = 16 << 10

const (
	emailKindCode   = "access_code"
	emailKindNotify = "access_request"
)

type AccessHandler struct {
	Config   *config.Config
	Codes    *accesscode.Generator
	EmailSvc mailer.Service
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewAccessHandler(cfg *config.Config, emailSvc mailer.Service, pub events.Publisher, m *metrics.Metrics) *AccessHandler {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &AccessHandler{
		Config:   cfg,
		Codes:    accesscode.NewGenerator(cfg.Investor.CodeSecret, cfg.CodeWindow()),
		EmailSvc: emailSvc,
		Events:   pub,
		Metrics:  m,
		Now:      time.Now,
	}
}

// Register mounts the issuer and verifier on r. Any method is routed here so
// the handlers can answer 405 with a JSON body.
func (h *AccessHandler) Register(r chi.Router) {
	r.HandleFunc("/investor-access", h.requestAccess)
	r.HandleFunc("/investor-verify", h.verify)
}

func (h *AccessHandler) requestAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, http.MethodPost)
		return
	}

	if missing := h.Config.IssuerMissing(); len(missing) > 0 {
		logger.ErrorContext(r.Context(), "Investor access misconfigured", "missing", missing)
		response.Misconfigured(w, missing[0])
		return
	}

	var in domain.AccessRequest
	if err := decode(w, r, &in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	now := h.Now()
	code := h.Codes.IssueAt(in.Email, now)
	meta := domain.AccessRequestMeta{
		Request:     in,
		IP:          middleware.ClientIP(r, h.Config.Server.TrustedProxyHops),
		UserAgent:   r.UserAgent(),
		RequestedAt: now,
	}

	if err := h.sendEmails(r.Context(), meta, code); err != nil {
		logger.ErrorContext(r.Context(), "Failed to send investor access emails", "error", err)
		response.InternalError(w)
		return
	}
	h.Metrics.CodeIssued()

	h.publish(r.Context(), events.InvestorAccessRequested, events.AccessRequestedEvent{
		FullName:     in.FullName,
		Email:        in.Email,
		Organisation: in.Organisation,
		Role:         in.Role,
		Consent:      in.Consent,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestedAt:  now.UTC(),
	})

	logger.InfoContext(r.Context(), "Investor access code issued", "organisation", in.Organisation)

	if h.Config.Investor.DevEchoCode {
		response.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "code": code})
		return
	}
	response.OK(w)
}

// sendEmails sends the code to the requester and then notifies staff.
// A failure of the second send leaves the first one delivered.
func (h *AccessHandler) sendEmails(ctx context.Context, meta domain.AccessRequestMeta, code string) error {
	if h.EmailSvc == nil {
		return errors.New("mail service not initialised")
	}

	from, err := mailer.ParseAddress(h.Config.Investor.NotifyFrom)
	if err != nil {
		return err
	}
	staff, err := mailer.ParseAddress(h.Config.Investor.NotifyTo)
	if err != nil {
		return err
	}

	codeMail, err := emails.AccessCode(meta.Request.FullName, code, h.Codes.Window())
	if err != nil {
		return err
	}
	_, err = h.EmailSvc.Send(ctx, mailer.Message{
		From:    from,
		To:      mailer.Address{Name: meta.Request.FullName, Email: meta.Request.Email},
		Subject: codeMail.Subject,
		Text:    codeMail.Text,
		HTML:    codeMail.HTML,
	})
	h.Metrics.Email(emailKindCode, err)
	if err != nil {
		return fmt.Errorf("send access code: %w", err)
	}

	notice, err := emails.AccessRequestNotification(meta)
	if err != nil {
		return err
	}
	_, err = h.EmailSvc.Send(ctx, mailer.Message{
		From:    from,
		To:      staff,
		Subject: notice.Subject,
		Text:    notice.Text,
		HTML:    notice.HTML,
	})
	h.Metrics.Email(emailKindNotify, err)
	if err != nil {
		return fmt.Errorf("send staff notification: %w", err)
	}
	return nil
}

func (h *AccessHandler) verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, http.MethodPost)
		return
	}

	if missing := h.Config.VerifierMissing(); len(missing) > 0 {
		logger.ErrorContext(r.Context(), "Investor verify misconfigured", "missing", missing)
		response.Misconfigured(w, missing[0])
		return
	}

	var in domain.VerifyRequest
	if err := decode(w, r, &in); err != nil {
		h.Metrics.Verification(metrics.OutcomeInvalid)
		response.BadRequest(w, "Invalid request")
		return
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		h.Metrics.Verification(metrics.OutcomeInvalid)
		response.BadRequest(w, "Invalid request")
		return
	}

	now := h.Now()
	if !h.Codes.VerifyAt(in.Email, string(in.Code), now) {
		h.Metrics.Verification(metrics.OutcomeRejected)
		response.Unauthorized(w, "Invalid or expired code")
		return
	}
	h.Metrics.Verification(metrics.OutcomeAccepted)

	h.publish(r.Context(), events.InvestorAccessVerified, events.AccessVerifiedEvent{
		Email:      in.Email,
		VerifiedAt: now.UTC(),
	})

	response.OK(w)
}

func (h *AccessHandler) publish(ctx context.Context, subject string, data any) {
	if err := h.Events.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrHoneypot):
		response.BadRequest(w, "Bad request")
	case errors.Is(err, domain.ErrMissingFields):
		response.BadRequest(w, "Missing required fields")
	case errors.Is(err, domain.ErrInvalidEmail):
		response.BadRequest(w, "Invalid email")
	case errors.Is(err, domain.ErrNDANotAccepted):
		response.Unauthorized(w, "You must accept the confidentiality statement")
	default:
		response.BadRequest(w, err.Error())
	}
}
