package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/ports"
)

// maxMessageLength is the Bot API limit for one text message.
const maxMessageLength = 4096

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	api *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. The chat is either a
// numeric ID or an @channel username.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Notifier{
		botToken: cfg.BotToken,
		chatID:   strings.TrimSpace(cfg.ChatID),
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishDigest posts the digest as plain text, split on line boundaries when
// it exceeds the message limit.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	api, err := n.bot()
	if err != nil {
		return err
	}

	for _, chunk := range splitMessage(digest, maxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := n.message(chunk)
		if err != nil {
			return err
		}
		if _, err := api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

func (n *Notifier) bot() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.api != nil {
		return n.api, nil
	}
	api, err := tgbotapi.NewBotAPIWithClient(n.botToken, n.endpoint, n.client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	n.api = api
	return api, nil
}

func (n *Notifier) message(text string) (tgbotapi.MessageConfig, error) {
	if strings.HasPrefix(n.chatID, "@") {
		return tgbotapi.NewMessageToChannel(n.chatID, text), nil
	}
	id, err := strconv.ParseInt(n.chatID, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("invalid chat id %q", n.chatID)
	}
	return tgbotapi.NewMessage(id, text), nil
}

func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
