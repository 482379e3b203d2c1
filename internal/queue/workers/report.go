package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/archetypehq/qrtrack/internal/queue"
	"github.com/archetypehq/qrtrack/internal/report"
)

type ReportWorker struct {
	reports *report.Service
}

func NewReportWorker(reports *report.Service) *ReportWorker {
	return &ReportWorker{reports: reports}
}

func (w *ReportWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	// Scheduler firings carry no payload; manual enqueues may pin a time.
	var payload queue.WeeklyReportPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	firedAt := time.Now().UTC()
	if payload.FiredAt != "" {
		parsed, err := time.Parse(time.RFC3339, payload.FiredAt)
		if err != nil {
			return fmt.Errorf("parse fired_at: %w", err)
		}
		firedAt = parsed
	}

	return w.reports.Run(ctx, firedAt)
}
