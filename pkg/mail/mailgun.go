package mail

import (
	"context"
	"errors"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/focusflow/backend/domain"
)

// MailgunConfig holds the provider credentials.
type MailgunConfig struct {
	Domain string
	APIKey string
	From   string
}

// MailgunSender sends template mail through Mailgun.
type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunSender(cfg MailgunConfig) (*MailgunSender, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("incomplete mailgun configuration")
	}
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: cfg.From,
	}, nil
}

// Send queues the message with the provider and returns the provider id.
func (s *MailgunSender) Send(ctx context.Context, mail domain.Mail) (string, error) {
	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	message := s.mg.NewMessage(s.from, mail.Subject, "")
	message.SetTemplate(mail.Template)
	if err := message.AddRecipient(mail.To); err != nil {
		return "", err
	}
	for name, value := range mail.Variables {
		if err := message.AddVariable(name, value); err != nil {
			return "", err
		}
	}

	_, id, err := s.mg.Send(sendCtx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}
