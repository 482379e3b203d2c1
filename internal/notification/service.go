package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/cache"
	"github.com/archetypehq/qrtrack/internal/models"
	"github.com/archetypehq/qrtrack/internal/queue"
)

const prefsCacheTTL = 5 * time.Minute

func prefsCacheKey(userID uuid.UUID) string {
	return "notifprefs:" + userID.String()
}

// recipient is what Dispatch needs to know about a user: where to email and
// what they opted out of.
type recipient struct {
	Email string      `json:"email"`
	Prefs Preferences `json:"prefs"`
}

// Dispatcher fans a single event out to the in-app log and the email queue.
// It is strictly best-effort: every failure is logged and swallowed so the
// triggering flow (scan recording, report run) never sees it.
type Dispatcher struct {
	db    *pgxpool.Pool
	cache *cache.Cache
	queue *queue.Client
}

func NewDispatcher(db *pgxpool.Pool, c *cache.Cache, q *queue.Client) *Dispatcher {
	return &Dispatcher{db: db, cache: c, queue: q}
}

// Dispatch looks up the user's preferences and delivers through each enabled
// channel independently. An in-app failure does not stop the email and vice
// versa; there is no shared transaction.
func (d *Dispatcher) Dispatch(ctx context.Context, userID uuid.UUID, brandID *uuid.UUID, event EventType, title, message, html string) {
	rcpt, err := d.lookupRecipient(ctx, userID)
	if err != nil {
		slog.Error("notification dispatch: recipient lookup failed", "user_id", userID, "error", err)
		return
	}

	if !rcpt.Prefs.Allows(event) {
		slog.Debug("notification skipped by preference", "user_id", userID, "event", event)
		return
	}

	if rcpt.Prefs.InApp {
		if err := d.insertInApp(ctx, userID, brandID, event, title, message); err != nil {
			slog.Error("in-app notification insert failed", "user_id", userID, "event", event, "error", err)
		}
	}

	if rcpt.Prefs.Email && html != "" && rcpt.Email != "" {
		err := d.queue.EnqueueEmailSend(queue.EmailSendPayload{
			To:      rcpt.Email,
			Subject: title,
			HTML:    html,
		})
		if err != nil {
			slog.Error("email notification enqueue failed", "user_id", userID, "event", event, "error", err)
		}
	}
}

func (d *Dispatcher) lookupRecipient(ctx context.Context, userID uuid.UUID) (*recipient, error) {
	var rcpt recipient
	if d.cache != nil {
		if err := d.cache.Get(ctx, prefsCacheKey(userID), &rcpt); err == nil {
			return &rcpt, nil
		}
	}

	var raw json.RawMessage
	err := d.db.QueryRow(ctx,
		"SELECT email, notification_preferences FROM users WHERE id = $1",
		userID,
	).Scan(&rcpt.Email, &raw)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	rcpt.Prefs = ParsePreferences(raw)

	if d.cache != nil {
		if err := d.cache.Set(ctx, prefsCacheKey(userID), rcpt, prefsCacheTTL); err != nil {
			slog.Warn("preference cache set failed", "user_id", userID, "error", err)
		}
	}
	return &rcpt, nil
}

func (d *Dispatcher) insertInApp(ctx context.Context, userID uuid.UUID, brandID *uuid.UUID, event EventType, title, message string) error {
	_, err := d.db.Exec(ctx,
		`INSERT INTO notification_logs (user_id, brand_id, type, channel, title, message, is_read)
		 VALUES ($1, $2, $3, 'in_app', $4, $5, false)`,
		userID, brandID, string(event), title, message,
	)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// Recent returns the newest in-app notifications for a user, for the header
// feed.
func (d *Dispatcher) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(ctx,
		`SELECT id, user_id, brand_id, type, channel, title, message, is_read, created_at
		 FROM notification_logs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var logs []models.NotificationLog
	for rows.Next() {
		var l models.NotificationLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.BrandID, &l.Type, &l.Channel, &l.Title, &l.Message, &l.IsRead, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// GetPreferences returns the stored preferences for a user, defaults applied.
func (d *Dispatcher) GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	var raw json.RawMessage
	err := d.db.QueryRow(ctx,
		"SELECT notification_preferences FROM users WHERE id = $1", userID,
	).Scan(&raw)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return ParsePreferences(raw), nil
}

// UpdatePreferences persists the full preference set and drops the cache
// entry so the next dispatch sees the change.
func (d *Dispatcher) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = d.db.Exec(ctx,
		"UPDATE users SET notification_preferences = $1 WHERE id = $2",
		data, userID,
	)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if d.cache != nil {
		if err := d.cache.Delete(ctx, prefsCacheKey(userID)); err != nil {
			slog.Warn("preference cache invalidation failed", "user_id", userID, "error", err)
		}
	}
	return nil
}
