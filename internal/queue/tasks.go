package queue

const (
	TypeEmailSend    = "email:send"
	TypeWeeklyReport = "report:weekly"
)

type EmailSendPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// WeeklyReportPayload carries the moment the schedule fired; the worker
// derives the reporting window and the dedupe key from it.
type WeeklyReportPayload struct {
	FiredAt string `json:"fired_at"` // RFC 3339; empty means "now"
}
