package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pagoupix/pagoupix-api/internal/billing"
	"github.com/pagoupix/pagoupix-api/internal/model"
)

// MaxMessageRunes is the longest text message the gateway accepts.
const MaxMessageRunes = 4096

type SendClient interface {
	Send(ctx context.Context, phone, message string) (remoteMessageID string, err error)
}

type Reminder struct {
	Phone  string       `json:"phone"`
	Charge model.Charge `json:"charge"`
}

// ReminderSender renders a charge reminder template per recipient and sends it.
// It never retries; each failure is reported through the onFailed hook.
type ReminderSender struct {
	client     SendClient
	contentMax int

	onSent   func(ctx context.Context, phone, remoteMessageID string)
	onFailed func(ctx context.Context, phone, reason string)
}

func NewReminderSender(client SendClient, contentMax int) *ReminderSender {
	return &ReminderSender{
		client:     client,
		contentMax: contentMax,
	}
}

func (s *ReminderSender) WithHooks(
	onSent func(ctx context.Context, phone, remoteMessageID string),
	onFailed func(ctx context.Context, phone, reason string),
) *ReminderSender {
	s.onSent = onSent
	s.onFailed = onFailed
	return s
}

func (s *ReminderSender) ProcessBatch(ctx context.Context, tmpl string, reminders []Reminder) (sent int, failed int) {
	for _, r := range reminders {
		if ctx.Err() != nil {
			failed++
			s.fail(ctx, r.Phone, ctx.Err().Error())
			continue
		}

		msg := strings.TrimSpace(billing.RenderTemplate(tmpl, r.Charge))
		if utf8.RuneCountInString(msg) > s.contentMax {
			failed++
			s.fail(ctx, r.Phone, fmt.Sprintf("mensagem excede %d caracteres", s.contentMax))
			continue
		}

		remoteID, err := s.client.Send(ctx, r.Phone, msg)
		if err != nil {
			failed++
			s.fail(ctx, r.Phone, err.Error())
			continue
		}

		sent++
		if s.onSent != nil {
			s.onSent(ctx, r.Phone, remoteID)
		}
	}
	return sent, failed
}

func (s *ReminderSender) fail(ctx context.Context, phone, reason string) {
	if s.onFailed != nil {
		s.onFailed(ctx, phone, reason)
	}
}
