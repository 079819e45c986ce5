package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResetNotifier delivers a password-reset link out of band. Delivery is
// fire-and-forget: the lifecycle manager logs failures but never reports
// them to the requester, so the response cannot leak whether a mailbox
// exists.
type ResetNotifier interface {
	Deliver(ctx context.Context, email, token string) error
}

func resetLink(baseURL, token string) string {
	return baseURL + "/reset-password?token=" + url.QueryEscape(token)
}

// LogNotifier writes the reset link to the process log. Default delivery
// target for local development.
type LogNotifier struct {
	logger  *slog.Logger
	baseURL string
}

func NewLogNotifier(logger *slog.Logger, baseURL string) *LogNotifier {
	return &LogNotifier{logger: logger, baseURL: baseURL}
}

func (n *LogNotifier) Deliver(_ context.Context, email, token string) error {
	n.logger.Info("Password reset link", "email", email, "link", resetLink(n.baseURL, token))
	return nil
}

type resetEmailJob struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ResetLink string    `json:"reset_link"`
	QueuedAt  time.Time `json:"queued_at"`
}

// RedisNotifier enqueues reset-link jobs for an external mailer to drain.
type RedisNotifier struct {
	rdb      *redis.Client
	queueKey string
	baseURL  string
}

func NewRedisNotifier(rdb *redis.Client, queueKey, baseURL string) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, queueKey: queueKey, baseURL: baseURL}
}

func (n *RedisNotifier) Deliver(ctx context.Context, email, token string) error {
	job := resetEmailJob{
		ID:        uuid.NewString(),
		Email:     email,
		ResetLink: resetLink(n.baseURL, token),
		QueuedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return n.rdb.LPush(ctx, n.queueKey, payload).Err()
}
