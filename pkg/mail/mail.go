package mail

import (
	"context"

	"github.com/focusflow/backend/domain"
)

// Sender delivers a single message to the provider.
type Sender interface {
	Send(ctx context.Context, mail domain.Mail) (string, error)
}
