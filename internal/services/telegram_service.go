package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrTelegramNotConfigured = errors.New("telegram bot or chat id is not configured")

// TelegramService mirrors override requests into a Telegram chat.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramService(botToken string, chatID int64) (*TelegramService, error) {
	return NewTelegramServiceWithEndpoint(botToken, chatID, tgbotapi.APIEndpoint, &http.Client{})
}

// NewTelegramServiceWithEndpoint lets tests point the bot at a fake API.
func NewTelegramServiceWithEndpoint(botToken string, chatID int64, endpoint string, client *http.Client) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramService{bot: bot, chatID: chatID}, nil
}

func (t *TelegramService) Channel() string { return "telegram" }

func (t *TelegramService) NotifyOverrideRequest(_ context.Context, req OverrideRequest) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		log.Printf("[tg][skip] bot or chatID empty")
		return ErrTelegramNotConfigured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🆘 <b>Override request</b>: %s\n", html.EscapeString(orDefault(req.DealName, "Deal #"+req.DealID)))
	fmt.Fprintf(&b, "Rep: %s\n", html.EscapeString(orDefault(req.RepName, "Unknown Rep")))
	fmt.Fprintf(&b, "Close: %s\nRLD: %s\nSuggested: %s\n", HumanDate(req.CloseDate), HumanDate(req.CurrentRLD), HumanDate(req.SuggestedRLD))
	fmt.Fprintf(&b, "Violation: %s", html.EscapeString(violationSummary(req.Violations)))

	msg := tgbotapi.NewMessage(t.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	log.Printf("[tg][send] chatID=%d deal=%s", t.chatID, req.DealID)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] %v", err)
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}
