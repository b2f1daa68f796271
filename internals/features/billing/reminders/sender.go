package reminders

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"kostku_backend/internals/features/billing/exports"
)

var ErrNoRecipient = errors.New("penghuni tidak punya kontak untuk channel ini")

// Sender = satu channel pengiriman pengingat.
type Sender interface {
	Channel() string
	CanSend(s *exports.Statement) bool
	Send(ctx context.Context, s *exports.Statement, m Message) error
}

/* ===================== Telegram ===================== */

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramSender struct {
	bot telegramAPI
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSender{bot: bot}, nil
}

func (t *TelegramSender) Channel() string { return "telegram" }

func (t *TelegramSender) CanSend(s *exports.Statement) bool {
	return s.TenantTelegramChatID != nil && *s.TenantTelegramChatID != 0
}

func (t *TelegramSender) Send(ctx context.Context, s *exports.Statement, m Message) error {
	if !t.CanSend(s) {
		return ErrNoRecipient
	}
	msg := tgbotapi.NewMessage(*s.TenantTelegramChatID, m.Telegram)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.bot.Send(msg)
	return err
}

/* ===================== SendGrid ===================== */

type SendgridSender struct {
	from *mail.Email
	send func(*mail.SGMailV3) error
}

func NewSendgridSender(apiKey, fromAddress string) *SendgridSender {
	client := sendgrid.NewSendClient(apiKey)
	return &SendgridSender{
		from: mail.NewEmail("Kostku", fromAddress),
		send: func(m *mail.SGMailV3) error {
			resp, err := client.Send(m)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 400 {
				return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
			}
			return nil
		},
	}
}

func (s *SendgridSender) Channel() string { return "email" }

func (s *SendgridSender) CanSend(st *exports.Statement) bool { return st.TenantEmail != "" }

func (s *SendgridSender) Send(ctx context.Context, st *exports.Statement, m Message) error {
	if !s.CanSend(st) {
		return ErrNoRecipient
	}
	to := mail.NewEmail(st.TenantName, st.TenantEmail)
	return s.send(mail.NewSingleEmail(s.from, m.EmailSubject, to, m.WhatsApp, m.EmailBody))
}

/* ===================== Log (fallback) ===================== */

type LogSender struct{}

func (LogSender) Channel() string { return "log" }

func (LogSender) CanSend(*exports.Statement) bool { return true }

func (LogSender) Send(ctx context.Context, s *exports.Statement, m Message) error {
	log.Info().
		Str("bill_id", s.Bill.BillID.String()).
		Str("room", s.RoomName).
		Str("period", s.Bill.BillPeriod).
		Str("whatsapp_link", WhatsAppLink(s.TenantPhone, m.WhatsApp)).
		Msg("pengingat tagihan (tanpa channel terkirim)")
	return nil
}
