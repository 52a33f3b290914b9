package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/univia-erp/univia-erp/internal/observability"
)

// Recorder publishes authentication events onto the job queue. It satisfies
// the auth handler's Events dependency; enqueue failures are logged and
// never surface into the request outcome.
type Recorder struct {
	Client  *Client
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// LoginSucceeded records a successful login attempt.
func (r *Recorder) LoginSucceeded(ctx context.Context, userID int64, collegeID *int64, email, ip, ua string) {
	r.Metrics.CountLogin("success")
	r.enqueue(ctx, LoginAuditPayload{
		EventID:   uuid.NewString(),
		UserID:    userID,
		CollegeID: collegeID,
		Email:     email,
		Outcome:   "success",
		IP:        ip,
		UserAgent: ua,
		At:        time.Now().UTC().Format(time.RFC3339),
	})
}

// LoginFailed records a rejected login attempt.
func (r *Recorder) LoginFailed(ctx context.Context, email, ip, ua string) {
	r.Metrics.CountLogin("failure")
	r.enqueue(ctx, LoginAuditPayload{
		EventID:   uuid.NewString(),
		Email:     email,
		Outcome:   "failure",
		IP:        ip,
		UserAgent: ua,
		At:        time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Recorder) enqueue(ctx context.Context, payload LoginAuditPayload) {
	if r == nil || r.Client == nil {
		return
	}
	task, err := NewLoginAuditTask(payload)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Error("build login audit task", slog.Any("error", err))
		}
		return
	}
	if _, err := r.Client.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		if r.Logger != nil {
			r.Logger.Warn("enqueue login audit", slog.Any("error", err))
		}
	}
}
