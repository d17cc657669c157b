package mailer

import (
	"fmt"

	"github.com/vitalos/website/pkg/config"
	"github.com/vitalos/website/pkg/logger"
)

// New builds the Service selected by MAIL_PROVIDER.
func New(cfg config.MailConfig) (Service, error) {
	var (
		svc Service
		err error
	)
	switch cfg.Provider {
	case config.ProviderMailerSend:
		var m *MailerSend
		if m, err = NewMailerSend(cfg.MailerSendKey, cfg.Timeout); err == nil {
			svc = m
		}
	case config.ProviderMailgun:
		var m *Mailgun
		if m, err = NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.Timeout); err == nil {
			svc = m
		}
	case config.ProviderSMTP:
		var m *SMTP
		if m, err = NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS, cfg.Timeout); err == nil {
			svc = m
		}
	case config.ProviderLog:
		svc = NewLogMailer(logger.Default())
	default:
		err = fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
