package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskRescoreAll = "leads.rescore_all"

// RescoreAllPayload records who asked for the rescore.
type RescoreAllPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
	Source      string    `json:"source"`
}

func NewRescoreAllTask(payload RescoreAllPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRescoreAll, data), nil
}

func ParseRescoreAllPayload(task *asynq.Task) (RescoreAllPayload, error) {
	var payload RescoreAllPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RescoreAllPayload{}, err
	}
	return payload, nil
}
