// Package notify delivers transient, auto-dismissing user notifications.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the notification severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is a transient message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Feed      string    `json:"feed,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TTL is how long the notification stays visible.
func (n Notification) TTL() time.Duration {
	return n.ExpiresAt.Sub(n.CreatedAt)
}

// New builds a notification created at now that expires after ttl.
func New(level Level, feed, message string, ttl time.Duration, now time.Time) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Feed:      feed,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Notifier receives notifications. Implementations must not block for long
// and must never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(_ context.Context, n Notification) {
	log := l.Logger
	if log == nil {
		log = zap.L()
	}
	fields := []zap.Field{
		zap.String("id", n.ID),
		zap.String("feed", n.Feed),
		zap.Duration("ttl", n.TTL()),
	}
	if n.Level == LevelWarning {
		log.Warn(n.Message, fields...)
		return
	}
	log.Info(n.Message, fields...)
}
