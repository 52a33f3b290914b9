package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/univia-erp/univia-erp/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLoginAudit is the task type for recording login attempts.
	TaskTypeLoginAudit = "auth:login_audit"
)

// LoginAuditPayload describes a login attempt to be recorded asynchronously.
type LoginAuditPayload struct {
	EventID   string `json:"event_id"`
	UserID    int64  `json:"user_id"`
	CollegeID *int64 `json:"college_id,omitempty"`
	Email     string `json:"email"`
	Outcome   string `json:"outcome"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	At        string `json:"at"`
}

// NewLoginAuditTask constructs an Asynq task.
func NewLoginAuditTask(payload LoginAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLoginAudit, data), nil
}

// LoginAuditHandler persists login attempts through the audit log.
type LoginAuditHandler struct {
	Audit  *shared.AuditLogger
	Logger *slog.Logger
}

// Handle processes TaskTypeLoginAudit tasks. Malformed payloads and
// already-recorded events are not retried.
func (h *LoginAuditHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LoginAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	at, err := time.Parse(time.RFC3339, payload.At)
	if err != nil {
		at = time.Now().UTC()
	}
	err = h.Audit.Record(ctx, shared.AuditLog{
		EventID:   payload.EventID,
		ActorID:   payload.UserID,
		CollegeID: payload.CollegeID,
		Action:    "auth.login." + payload.Outcome,
		Entity:    "user",
		EntityID:  payload.Email,
		Meta: map[string]any{
			"ip":         payload.IP,
			"user_agent": payload.UserAgent,
		},
		At: at,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Duplicate event id: the attempt was already recorded.
			return asynq.SkipRetry
		}
		if h.Logger != nil {
			h.Logger.Error("record login audit", slog.Any("error", err))
		}
		return err
	}
	return nil
}
