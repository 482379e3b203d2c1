// Package scan appends QR scan events and drives the follow-on badge and
// milestone checks. The scan row is the only step that can fail the request;
// everything after it is best-effort.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/badge"
	"github.com/archetypehq/qrtrack/internal/models"
	"github.com/archetypehq/qrtrack/internal/notification"
)

type Recorder struct {
	db       *pgxpool.Pool
	notifier *notification.Dispatcher
}

func NewRecorder(db *pgxpool.Pool, notifier *notification.Dispatcher) *Recorder {
	return &Recorder{db: db, notifier: notifier}
}

type RecordRequest struct {
	CampaignID uuid.UUID       `json:"campaign_id" validate:"required"`
	UserID     *uuid.UUID      `json:"user_id"`
	Location   string          `json:"location"`
	DeviceType string          `json:"device_type"`
	IPAddress  string          `json:"ip_address"`
	Metadata   json.RawMessage `json:"metadata"`
}

type RecordResult struct {
	Scan        models.Scan   `json:"scan"`
	BadgeEarned bool          `json:"badge_earned"`
	Badge       *models.Badge `json:"badge,omitempty"`
	Milestone   int           `json:"milestone,omitempty"`
}

// Record persists the scan and then walks the pipeline: badge eligibility,
// milestone check, notifications. Failures past the insert are logged and do
// not roll back the scan.
func (r *Recorder) Record(ctx context.Context, req RecordRequest) (*RecordResult, error) {
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}

	var sc models.Scan
	err := r.db.QueryRow(ctx,
		`INSERT INTO qr_scans (campaign_id, user_id, location, device_type, ip_address, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, campaign_id, user_id, location, device_type, ip_address, metadata, scanned_at`,
		req.CampaignID, req.UserID, req.Location, req.DeviceType, req.IPAddress, metadata,
	).Scan(&sc.ID, &sc.CampaignID, &sc.UserID, &sc.Location, &sc.DeviceType, &sc.IPAddress, &sc.Metadata, &sc.ScannedAt)
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}

	result := &RecordResult{Scan: sc}
	if req.UserID == nil {
		return result, nil
	}
	userID := *req.UserID

	if earned, err := r.checkBadges(ctx, userID, req.CampaignID, result); err != nil {
		slog.Error("badge eligibility check failed", "user_id", userID, "campaign_id", req.CampaignID, "error", err)
	} else if earned {
		result.BadgeEarned = true
	}

	if err := r.checkMilestone(ctx, userID, result); err != nil {
		slog.Error("milestone check failed", "user_id", userID, "error", err)
	}

	return result, nil
}

// checkBadges evaluates every unowned badge of the campaign's brand against
// the user's scan count on this campaign and grants the first match. The
// insert ignores conflicts, so two concurrent scans settle on a single grant
// and only the winner notifies.
func (r *Recorder) checkBadges(ctx context.Context, userID, campaignID uuid.UUID, result *RecordResult) (bool, error) {
	var scanCount int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM qr_scans WHERE user_id = $1 AND campaign_id = $2",
		userID, campaignID,
	).Scan(&scanCount)
	if err != nil {
		return false, fmt.Errorf("count campaign scans: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.brand_id, b.name, b.description, b.image_url, b.trigger_condition, b.created_at
		 FROM badges b
		 JOIN campaigns c ON c.brand_id = b.brand_id
		 WHERE c.id = $1
		   AND NOT EXISTS (
		       SELECT 1 FROM user_badges ub WHERE ub.user_id = $2 AND ub.badge_id = b.id
		   )
		 ORDER BY b.created_at ASC`,
		campaignID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("query candidate badges: %w", err)
	}
	defer rows.Close()

	var candidates []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.BrandID, &b.Name, &b.Description, &b.ImageURL, &b.TriggerCondition, &b.CreatedAt); err != nil {
			return false, fmt.Errorf("scan badge row: %w", err)
		}
		candidates = append(candidates, b)
	}

	for _, b := range candidates {
		if !badge.EvaluateTrigger(b.TriggerCondition, scanCount) {
			continue
		}

		tag, err := r.db.Exec(ctx,
			`INSERT INTO user_badges (user_id, badge_id) VALUES ($1, $2)
			 ON CONFLICT (user_id, badge_id) DO NOTHING`,
			userID, b.ID,
		)
		if err != nil {
			return false, fmt.Errorf("grant badge %s: %w", b.ID, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}

		granted := b
		result.Badge = &granted
		r.notifier.Dispatch(ctx, userID, &b.BrandID, notification.EventBadgeEarned,
			"You earned a badge!",
			fmt.Sprintf("The %q badge is now in your collection.", b.Name),
			"")
		return true, nil
	}
	return false, nil
}

func (r *Recorder) checkMilestone(ctx context.Context, userID uuid.UUID, result *RecordResult) error {
	var total int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM qr_scans WHERE user_id = $1", userID,
	).Scan(&total)
	if err != nil {
		return fmt.Errorf("count user scans: %w", err)
	}

	milestone, hit := MilestoneReached(total)
	if !hit {
		return nil
	}

	result.Milestone = milestone
	r.notifier.Dispatch(ctx, userID, nil, notification.EventCampaignMilestone,
		fmt.Sprintf("%d scans and counting", milestone),
		fmt.Sprintf("You just passed %d total QR scans. Keep going!", milestone),
		"")
	return nil
}

// milestones are the cumulative scan counts that trigger a celebration.
var milestones = []int{10, 50, 100, 500}

// MilestoneReached reports the milestone a running total lands on exactly,
// so each threshold fires once rather than on every scan above it.
func MilestoneReached(total int) (int, bool) {
	for _, m := range milestones {
		if total == m {
			return m, true
		}
	}
	return 0, false
}
