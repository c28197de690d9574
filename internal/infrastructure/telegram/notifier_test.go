package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"NewsVerifier/internal/config"
)

type botServer struct {
	mu    sync.Mutex
	sent  []map[string]string
	calls map[string]int
}

func newBotServer(t *testing.T) (*botServer, *httptest.Server) {
	t.Helper()

	bs := &botServer{calls: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		bs.mu.Lock()
		bs.calls[method]++
		if method == "sendMessage" {
			bs.sent = append(bs.sent, map[string]string{
				"chat_id": r.PostForm.Get("chat_id"),
				"text":    r.PostForm.Get("text"),
			})
		}
		bs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Verifier","username":"verifier_bot"}}`))
		case "sendMessage":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
	t.Cleanup(server.Close)
	return bs, server
}

func TestNotifierPublishDigest(t *testing.T) {
	t.Parallel()

	bs, server := newBotServer(t)
	n := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: "42", APIEndpoint: server.URL + "/bot%s/%s"})

	if err := n.PublishDigest(context.Background(), "first digest"); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}
	if err := n.PublishDigest(context.Background(), "second digest"); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}

	if bs.calls["getMe"] != 1 {
		t.Fatalf("expected bot to be initialised once, got %d", bs.calls["getMe"])
	}
	if len(bs.sent) != 2 || bs.sent[0]["chat_id"] != "42" || bs.sent[0]["text"] != "first digest" {
		t.Fatalf("unexpected messages: %v", bs.sent)
	}
}

func TestNotifierChannelUsername(t *testing.T) {
	t.Parallel()

	bs, server := newBotServer(t)
	n := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: "@newsroom", APIEndpoint: server.URL + "/bot%s/%s"})

	if err := n.PublishDigest(context.Background(), "digest"); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}
	if len(bs.sent) != 1 || bs.sent[0]["chat_id"] != "@newsroom" {
		t.Fatalf("unexpected messages: %v", bs.sent)
	}
}

func TestNotifierMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier(config.TelegramConfig{}).PublishDigest(context.Background(), "x"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}

	_, server := newBotServer(t)
	n := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: "not-a-number", APIEndpoint: server.URL + "/bot%s/%s"})
	if err := n.PublishDigest(context.Background(), "x"); err == nil {
		t.Fatalf("expected invalid chat id error")
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	if got := splitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("unexpected split: %v", got)
	}

	text := "line one\nline two\nline three"
	chunks := splitMessage(text, 12)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for _, c := range chunks {
		if len([]rune(c)) > 12 {
			t.Fatalf("chunk too long: %q", c)
		}
	}
	if strings.Join(chunks, "\n") != text {
		t.Fatalf("chunks do not reassemble: %v", chunks)
	}
}
