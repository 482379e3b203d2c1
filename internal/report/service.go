// Package report builds and sends the weekly summary email. A persisted
// per-period watermark makes the job safe against double-firing and catches
// the missed-run case after downtime: whichever process claims the period
// row first does the send.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/notification"
)

type Service struct {
	db           *pgxpool.Pool
	notifier     *notification.Dispatcher
	dashboardURL string
}

func NewService(db *pgxpool.Pool, notifier *notification.Dispatcher, dashboardURL string) *Service {
	return &Service{db: db, notifier: notifier, dashboardURL: dashboardURL}
}

// PeriodKey identifies a reporting period by ISO week, e.g. "2026-W35".
func PeriodKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Window is the seven days leading up to the firing time.
func Window(firedAt time.Time) (time.Time, time.Time) {
	end := firedAt.UTC()
	return end.Add(-7 * 24 * time.Hour), end
}

// Run claims the period watermark and, if this process won the claim,
// iterates users and dispatches their summaries. A loser logs and exits;
// per-user failures are logged and skipped so one bad row cannot starve the
// rest of the send.
func (s *Service) Run(ctx context.Context, firedAt time.Time) error {
	key := PeriodKey(firedAt)

	tag, err := s.db.Exec(ctx,
		"INSERT INTO report_runs (period_key) VALUES ($1) ON CONFLICT (period_key) DO NOTHING",
		key,
	)
	if err != nil {
		return fmt.Errorf("claim report period %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		slog.Info("weekly report already sent for period, skipping", "period", key)
		return nil
	}

	start, end := Window(firedAt)

	rows, err := s.db.Query(ctx,
		"SELECT id, email, name, brand_id, notification_preferences FROM users",
	)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	type target struct {
		id      uuid.UUID
		email   string
		name    string
		brandID *uuid.UUID
	}
	var targets []target
	for rows.Next() {
		var t target
		var rawPrefs json.RawMessage
		if err := rows.Scan(&t.id, &t.email, &t.name, &t.brandID, &rawPrefs); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		prefs := notification.ParsePreferences(rawPrefs)
		if !prefs.WeeklyReport || t.email == "" {
			continue
		}
		targets = append(targets, t)
	}
	rows.Close()

	sent := 0
	for _, t := range targets {
		totalScans := 0
		if t.brandID != nil {
			if err := s.db.QueryRow(ctx,
				`SELECT COUNT(*)
				 FROM qr_scans sc
				 JOIN campaigns c ON c.id = sc.campaign_id
				 WHERE c.brand_id = $1 AND sc.scanned_at >= $2 AND sc.scanned_at < $3`,
				*t.brandID, start, end,
			).Scan(&totalScans); err != nil {
				slog.Error("weekly report scan count failed", "user_id", t.id, "error", err)
				continue
			}
		}

		s.notifier.Dispatch(ctx, t.id, t.brandID, notification.EventWeeklyReport,
			"Your weekly performance summary",
			fmt.Sprintf("Your campaigns collected %d scans over the last week.", totalScans),
			s.composeHTML(t.name, totalScans),
		)
		sent++
	}

	if _, err := s.db.Exec(ctx,
		"UPDATE report_runs SET completed_at = now() WHERE period_key = $1", key,
	); err != nil {
		slog.Error("failed to mark report run complete", "period", key, "error", err)
	}

	slog.Info("weekly report run complete", "period", key, "recipients", sent)
	return nil
}

func (s *Service) composeHTML(name string, totalScans int) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
  <h2>Hi %s!</h2>
  <p>Here is your weekly performance summary.</p>
  <div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #555;">QR scans last week</h3>
    <p style="font-size: 24px; font-weight: bold; margin: 0; color: #2E8B57;">%d</p>
  </div>
  <p>Open the dashboard for the full breakdown of customer activity.</p>
  <a href="%s/login" style="display: inline-block; padding: 10px 20px; background-color: #2E8B57; color: white; text-decoration: none; border-radius: 4px;">Go to dashboard</a>
</div>`, name, totalScans, s.dashboardURL)
}
