package jobs_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univia-erp/univia-erp/jobs"
	_ "github.com/univia-erp/univia-erp/testing"
)

func TestNewLoginAuditTask(t *testing.T) {
	collegeID := int64(7)
	task, err := jobs.NewLoginAuditTask(jobs.LoginAuditPayload{
		EventID:   "evt-1",
		UserID:    42,
		CollegeID: &collegeID,
		Email:     "asha@example.edu",
		Outcome:   "success",
		IP:        "203.0.113.9",
		At:        "2026-08-31T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskTypeLoginAudit, task.Type())

	var payload jobs.LoginAuditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "evt-1", payload.EventID)
	assert.Equal(t, "success", payload.Outcome)
	require.NotNil(t, payload.CollegeID)
	assert.Equal(t, int64(7), *payload.CollegeID)
}

func TestLoginAuditHandlerSkipsMalformedPayload(t *testing.T) {
	h := &jobs.LoginAuditHandler{}

	err := h.Handle(context.Background(), asynq.NewTask(jobs.TaskTypeLoginAudit, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
