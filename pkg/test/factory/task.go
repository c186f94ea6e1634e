package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"daycheck/internal/core/domain"
)

// NewTask builds a valid task. Fabricator fills the title; the id and
// timestamp are set here unless customData overrides them.
func NewTask(customData ...map[string]any) domain.Task {
	instance := fab.New(domain.Task{})

	hasID := false
	hasCreatedAt := false

	for _, data := range customData {
		if _, exists := data["ID"]; exists {
			hasID = true
		}
		if _, exists := data["CreatedAt"]; exists {
			hasCreatedAt = true
		}
	}

	if !hasID {
		customData = append(customData, map[string]any{
			"ID": uuid.New(),
		})
	}

	if !hasCreatedAt {
		customData = append(customData, map[string]any{
			"CreatedAt": time.Now(),
		})
	}

	return instance.Build(customData...)
}

func NewCompletionRecord(taskID uuid.UUID, date string) domain.CompletionRecord {
	return domain.CompletionRecord{
		TaskID: taskID,
		Date:   date,
	}
}
