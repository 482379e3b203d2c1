package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/archetypehq/qrtrack/internal/mailer"
	"github.com/archetypehq/qrtrack/internal/queue"
)

type EmailWorker struct {
	mail *mailer.Client
}

func NewEmailWorker(mail *mailer.Client) *EmailWorker {
	return &EmailWorker{mail: mail}
}

func (w *EmailWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EmailSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := w.mail.Send(ctx, payload.To, payload.Subject, payload.HTML); err != nil {
		return fmt.Errorf("send email to %s: %w", payload.To, err)
	}

	slog.Info("email delivered", "to", payload.To, "subject", payload.Subject)
	return nil
}
