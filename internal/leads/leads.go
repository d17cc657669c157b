// Package leads turns investor gate events into a structured lead log.
package leads

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vitalos/website/pkg/events"
)

type Recorder struct {
	log *slog.Logger
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Handle records one event. Unknown subjects are an error so they show up in logs.
func (r *Recorder) Handle(msg *events.Message) error {
	switch msg.Subject {
	case events.InvestorAccessRequested:
		var ev events.AccessRequestedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Subject, err)
		}
		r.log.Info("Investor access requested",
			"name", ev.FullName,
			"email", ev.Email,
			"organisation", ev.Organisation,
			"role", ev.Role,
			"consent", ev.Consent,
			"ip", ev.IP,
			"requested_at", ev.RequestedAt,
		)
	case events.InvestorAccessVerified:
		var ev events.AccessVerifiedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Subject, err)
		}
		r.log.Info("Investor access verified", "email", ev.Email, "verified_at", ev.VerifiedAt)
	default:
		return fmt.Errorf("unexpected subject %q", msg.Subject)
	}
	return nil
}
