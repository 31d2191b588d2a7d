package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramNotifier delivers notifications as Telegram messages to a fixed
// chat. Sends are rate limited; the Bot API rejects bursts.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 5), // 1 msg/s, burst 5
	}
}

func (n *TelegramNotifier) Send(ctx context.Context, c Content) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, c.Title+"\n"+c.Body))
	return err
}
