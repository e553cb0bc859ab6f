package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/internal/infrastructure/outbox"
)

type fakeSender struct {
	sent    []domain.Mail
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, mail domain.Mail) (string, error) {
	if err, ok := f.failFor[mail.To]; ok {
		return "", err
	}
	f.sent = append(f.sent, mail)
	return "queued", nil
}

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func openStore(t *testing.T) *outbox.Store {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "mail")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func queueMail(t *testing.T, store *outbox.Store, to string) {
	t.Helper()
	bridge := NewMailBridge(store)
	err := bridge.Enqueue(context.Background(), domain.Mail{
		To:       to,
		Subject:  "Confirm your account",
		Template: domain.MailTemplateVerify,
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestDrain(t *testing.T) {
	t.Run("delivers queued mail and empties the outbox", func(t *testing.T) {
		store := openStore(t)
		queueMail(t, store, "jo@example.com")

		sender := &fakeSender{}
		mp := NewMailProcessor(store, staticHealth(true), sender, nil, ProcessorConfig{MaxRetries: 3})

		if err := mp.Drain(context.Background()); err != nil {
			t.Fatalf("drain: %v", err)
		}
		if len(sender.sent) != 1 || sender.sent[0].To != "jo@example.com" {
			t.Fatalf("unexpected deliveries: %+v", sender.sent)
		}
		if mp.Size() != 0 {
			t.Fatalf("outbox not drained, size %d", mp.Size())
		}
	})

	t.Run("offline health skips the drain", func(t *testing.T) {
		store := openStore(t)
		queueMail(t, store, "jo@example.com")

		sender := &fakeSender{}
		mp := NewMailProcessor(store, staticHealth(false), sender, nil, ProcessorConfig{})

		if err := mp.Drain(context.Background()); err != nil {
			t.Fatalf("drain: %v", err)
		}
		if len(sender.sent) != 0 {
			t.Fatal("mail must not be sent while offline")
		}
		if mp.Size() != 1 {
			t.Fatalf("entry lost, size %d", mp.Size())
		}
	})

	t.Run("failed delivery is requeued with a bumped retry count", func(t *testing.T) {
		store := openStore(t)
		queueMail(t, store, "jo@example.com")

		sender := &fakeSender{failFor: map[string]error{"jo@example.com": errors.New("provider down")}}
		mp := NewMailProcessor(store, staticHealth(true), sender, nil, ProcessorConfig{MaxRetries: 3})

		if err := mp.Drain(context.Background()); err != nil {
			t.Fatalf("drain: %v", err)
		}
		if mp.Size() != 1 {
			t.Fatalf("entry should still be queued, size %d", mp.Size())
		}
		batch, _ := store.GetBatch(1)
		if batch[0].Retries != 1 {
			t.Fatalf("retry count not bumped: %d", batch[0].Retries)
		}
	})

	t.Run("entry is dropped once the retry budget is spent", func(t *testing.T) {
		store := openStore(t)
		queueMail(t, store, "jo@example.com")

		sender := &fakeSender{failFor: map[string]error{"jo@example.com": errors.New("provider down")}}
		mp := NewMailProcessor(store, staticHealth(true), sender, nil, ProcessorConfig{MaxRetries: 2})

		for i := 0; i < 2; i++ {
			if err := mp.Drain(context.Background()); err != nil {
				t.Fatalf("drain %d: %v", i, err)
			}
		}
		if mp.Size() != 0 {
			t.Fatalf("expected the entry to be dropped, size %d", mp.Size())
		}
	})
}

func TestMailBridgePriority(t *testing.T) {
	store := openStore(t)
	bridge := NewMailBridge(store)

	for _, template := range []string{domain.MailTemplateEmailChange, domain.MailTemplateReset, domain.MailTemplateVerify} {
		err := bridge.Enqueue(context.Background(), domain.Mail{
			To:       template + "@example.com",
			Template: template,
		})
		if err != nil {
			t.Fatalf("enqueue %s: %v", template, err)
		}
	}

	batch, err := store.GetBatch(3)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(batch))
	}
	// Verification mail gates sign-in and must drain first.
	if batch[0].Mail.Template != domain.MailTemplateVerify {
		t.Fatalf("expected verification mail first, got %q", batch[0].Mail.Template)
	}
}
