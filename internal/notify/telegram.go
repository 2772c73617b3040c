package notify

import (
	"context"
	"fmt"

	"innkeeper/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier posts booking events to a manager chat. With an
// empty token the notifier is disabled and every call is a no-op.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger zerolog.Logger) (*TelegramNotifier, error) {
	n := &TelegramNotifier{chatID: chatID, logger: logger.With().Str("component", "notify").Logger()}
	if token == "" {
		n.logger.Info().Msg("Telegram token is empty, notifications disabled")
		return n, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	n.bot = bot
	return n, nil
}

func (n *TelegramNotifier) BookingCreated(ctx context.Context, b *models.Booking) {
	n.send(ctx, fmt.Sprintf(
		"New booking #%d\nRoom %s, %s\nGuest: %s\nTotal: %s",
		b.ID, b.RoomNumber, b.Stay(), b.ClientName, b.TotalCents,
	))
}

func (n *TelegramNotifier) BookingCancelled(ctx context.Context, b *models.Booking) {
	n.send(ctx, fmt.Sprintf(
		"Booking #%d cancelled\nRoom %s, %s",
		b.ID, b.RoomNumber, b.Stay(),
	))
}

// Announce posts a free-form operational message to the manager chat.
func (n *TelegramNotifier) Announce(ctx context.Context, text string) {
	n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.bot == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("Failed to send telegram notification")
	}
}
