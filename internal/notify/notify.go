// Package notify delivers confirmation codes to users out of band.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Message is the queue payload consumed by the external mailer.
type Message struct {
	Kind      string    `json:"kind"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Code      string    `json:"confirmation_code"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	kindConfirmation    = "confirmation_code"
	confirmationSubject = "Your YaMDb confirmation code"
)

// pusher is the subset of redis.Cmdable the notifier needs.
type pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisNotifier queues messages on a Redis list for a mail worker.
type RedisNotifier struct {
	client pusher
	key    string
	now    func() time.Time
}

func NewRedisNotifier(client redis.Cmdable, key string) *RedisNotifier {
	return &RedisNotifier{client: client, key: key, now: time.Now}
}

func (n *RedisNotifier) Send(ctx context.Context, email, code string) error {
	payload, err := json.Marshal(Message{
		Kind:      kindConfirmation,
		Email:     email,
		Subject:   confirmationSubject,
		Code:      code,
		CreatedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := n.client.LPush(ctx, n.key, payload).Err(); err != nil {
		return fmt.Errorf("queue message: %w", err)
	}
	return nil
}

// LogNotifier writes codes to the log. For development only.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, email, code string) error {
	n.logger.Info("Confirmation code", "email", email, "confirmation_code", code)
	return nil
}

// NewRedisClient connects to the Redis server at url and verifies it answers.
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
