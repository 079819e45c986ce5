package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestResetLink(t *testing.T) {
	link := resetLink("http://localhost:8000", "tok/en+value")
	assert.Equal(t, "http://localhost:8000/reset-password?token=tok%2Fen%2Bvalue", link)
}

func TestLogNotifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n := NewLogNotifier(logger, "http://localhost:8000")

	err := n.Deliver(context.Background(), "alice@example.com", "token-123")
	assert.NoError(t, err)
}

func TestRedisNotifier_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1", MaxRetries: -1})
	n := NewRedisNotifier(rdb, "auth:reset_emails", "http://localhost:8000")

	err := n.Deliver(context.Background(), "alice@example.com", "token-123")
	assert.Error(t, err)
}
