// Package notify delivers price alerts to chat channels.
package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// Sender is the part of *tgbotapi.BotAPI the sink needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink posts price alerts to one Telegram chat.
type TelegramSink struct {
	bot    Sender
	chatID int64
	logger *logger.Logger
}

// DefaultTimeout bounds each Bot API request when no timeout is given.
const DefaultTimeout = 10 * time.Second

// NewTelegramBot connects to the Bot API. endpoint may be empty for the
// public Telegram server. Every request the bot makes is cut off after
// timeout.
func NewTelegramBot(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return bot, nil
}

// NewTelegramSink creates a sink sending to chatID through bot.
func NewTelegramSink(bot Sender, chatID int64, log *logger.Logger) *TelegramSink {
	return &TelegramSink{bot: bot, chatID: chatID, logger: logger.OrNop(log)}
}

// Notify implements domain.AlertSink.
func (s *TelegramSink) Notify(ctx context.Context, alert domain.PriceAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, FormatAlert(alert))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := s.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	s.logger.WithSubject(alert.SubjectID).Debug().Int("message_id", sent.MessageID).Msg("telegram alert sent")
	return nil
}

// FormatAlert renders an alert as Telegram HTML.
func FormatAlert(alert domain.PriceAlert) string {
	item := alert.Item
	var b strings.Builder

	b.WriteString("🔔 <b>Price alert</b>\n")
	fmt.Fprintf(&b, "%s is now <b>%s %.2f</b> (threshold %.2f)\n",
		html.EscapeString(item.DisplayName), currency(item), alert.MinPrice, alert.Threshold)

	if t := item.Transport; t != nil {
		if t.Origin != "" && t.Destination != "" {
			fmt.Fprintf(&b, "%s → %s", html.EscapeString(t.Origin), html.EscapeString(t.Destination))
			if t.DepartureTime != nil {
				fmt.Fprintf(&b, ", departs %s", t.DepartureTime.Format("02 Jan 15:04"))
			}
			b.WriteString("\n")
		}
	}
	if item.SourceProvider != "" {
		fmt.Fprintf(&b, "via %s\n", html.EscapeString(item.SourceProvider))
	}
	if item.RawBookingURL != "" {
		fmt.Fprintf(&b, `<a href="%s">Book now</a>`, html.EscapeString(item.RawBookingURL))
	}

	return strings.TrimRight(b.String(), "\n")
}

func currency(item domain.ListingItem) string {
	if item.Price != nil && item.Price.Currency != "" {
		return item.Price.Currency
	}
	return domain.DefaultCurrency
}

var _ domain.AlertSink = (*TelegramSink)(nil)
