package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"daycheck/internal/core/domain"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	task, ok := domain.NewTask("  Water the plants  ", now)

	assert.True(t, ok)
	assert.Equal(t, "Water the plants", task.Title)
	assert.Equal(t, now, task.CreatedAt)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.False(t, task.Archived)
}

func TestNewTask_BlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, ok := domain.NewTask(title, time.Now())
		assert.False(t, ok, "title %q should be rejected", title)
	}
}

func TestNewTask_UniqueIDs(t *testing.T) {
	a, _ := domain.NewTask("same title", time.Now())
	b, _ := domain.NewTask("same title", time.Now())

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRename(t *testing.T) {
	task, _ := domain.NewTask("Before", time.Now())

	assert.True(t, task.Rename("  After  "))
	assert.Equal(t, "After", task.Title)
}

func TestRename_BlankKeepsTitle(t *testing.T) {
	task, _ := domain.NewTask("Before", time.Now())

	assert.False(t, task.Rename("   "))
	assert.Equal(t, "Before", task.Title)
}

func TestCompletionRecordMatches(t *testing.T) {
	id := uuid.New()
	record := domain.CompletionRecord{TaskID: id, Date: "2025-03-14"}

	assert.True(t, record.Matches(id, "2025-03-14"))
	assert.False(t, record.Matches(id, "2025-03-15"))
	assert.False(t, record.Matches(uuid.New(), "2025-03-14"))
	assert.True(t, record.BelongsTo(id))
	assert.False(t, record.BelongsTo(uuid.New()))
}
