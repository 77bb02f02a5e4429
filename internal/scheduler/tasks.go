package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskLeadsDigest = "leads.digest"

// Digest triggers.
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

type DigestPayload struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewDigestTask(payload DigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadsDigest, data), nil
}

func ParseDigestPayload(task *asynq.Task) (DigestPayload, error) {
	var payload DigestPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DigestPayload{}, err
	}
	return payload, nil
}
