package services

import (
	"context"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/internal/infrastructure/outbox"
	"github.com/focusflow/backend/usecase"
)

// MailBridge implements the use-case Mailer port on top of the outbox.
// Enqueue never blocks on the provider: delivery happens on the processor's
// schedule.
type MailBridge struct {
	store *outbox.Store
}

func NewMailBridge(store *outbox.Store) *MailBridge {
	return &MailBridge{store: store}
}

func (b *MailBridge) Enqueue(ctx context.Context, mail domain.Mail) error {
	if b.store == nil {
		return domain.ErrInvalidPayload
	}
	return b.store.Enqueue(outbox.Entry{
		ID:       mail.ID,
		Mail:     mail,
		Priority: mailPriority(mail.Template),
	})
}

// Verification mail blocks sign-in, so it drains ahead of the rest.
func mailPriority(template string) int {
	switch template {
	case domain.MailTemplateVerify:
		return 1
	case domain.MailTemplateReset:
		return 2
	default:
		return 3
	}
}

var _ usecase.Mailer = (*MailBridge)(nil)
