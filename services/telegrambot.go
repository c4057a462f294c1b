package services

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramMessageLimit = 4096

type telegramBotCredentials interface {
	GetTelegramBotAPIToken() string
	GetTelegramChatIDs() []int64
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot     telegramSender
	chatIDs []int64
}

func NewTelegramNotifier(telegramBotCredentials telegramBotCredentials) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(telegramBotCredentials.GetTelegramBotAPIToken())
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}

	return NewTelegramNotifierWithSender(bot, telegramBotCredentials.GetTelegramChatIDs()), nil
}

func NewTelegramNotifierWithSender(bot telegramSender, chatIDs []int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs}
}

func (telegramBot *TelegramNotifier) Publish(_ context.Context, subject string, body string) error {
	text := subject
	if body != "" {
		text += "\n\n" + body
	}
	if runes := []rune(text); len(runes) > telegramMessageLimit {
		text = string(runes[:telegramMessageLimit])
	}

	var errs []error
	for _, chatID := range telegramBot.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := telegramBot.bot.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return notificationError("telegram", err)
	}
	return nil
}
