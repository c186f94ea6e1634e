package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "daycheck/pkg/test"

	"daycheck/internal/adapter/http/confirm"
	"daycheck/internal/core/domain"
	"daycheck/internal/core/port"
	"daycheck/internal/core/service"
	"daycheck/internal/core/telemetry"
)

var ctx = context.Background()

type ChecklistServiceSuite struct {
	suite.Suite
	Repo port.ChecklistRepository
	KV   port.KVStore
	Svc  *service.ChecklistService
}

func (s *ChecklistServiceSuite) SetupTest() {
	s.Repo, s.KV = NewMemoryRepository()
	s.Svc = NewChecklistService(s.T(), s.Repo, ClockAt("2025-03-14"))
}

func TestChecklistServiceSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(ChecklistServiceSuite))
}

// rehydrate builds a fresh service over the same repository, simulating a
// restart on the given date.
func (s *ChecklistServiceSuite) rehydrate(date string) *service.ChecklistService {
	return NewChecklistService(s.T(), s.Repo, ClockAt(date))
}

func (s *ChecklistServiceSuite) addTask(title string) domain.Task {
	task, err := s.Svc.AddTask(ctx, title)

	Expect(err).To(BeNil())
	Expect(task).NotTo(BeNil())

	return *task
}

func (s *ChecklistServiceSuite) TestSessionDate() {
	Expect(s.Svc.SessionDate()).To(Equal("2025-03-14"))
}

func (s *ChecklistServiceSuite) TestAddTask_AppendsInOrder() {
	first := s.addTask("Water the plants")
	second := s.addTask("Stretch")

	tasks := s.Svc.Tasks()

	Expect(tasks).To(HaveLen(2))
	Expect(tasks[0].ID).To(Equal(first.ID))
	Expect(tasks[1].ID).To(Equal(second.ID))
	Expect(s.Svc.TotalTasksCount()).To(Equal(2))
}

func (s *ChecklistServiceSuite) TestAddTask_TrimsTitle() {
	task := s.addTask("  Read 20 pages  ")

	Expect(task.Title).To(Equal("Read 20 pages"))
}

func (s *ChecklistServiceSuite) TestAddTask_BlankIsNoOp() {
	task, err := s.Svc.AddTask(ctx, "   ")

	Expect(err).To(BeNil())
	Expect(task).To(BeNil())
	Expect(s.Svc.TotalTasksCount()).To(Equal(0))
}

func (s *ChecklistServiceSuite) TestAddTask_DuplicateTitlesAllowed() {
	a := s.addTask("Call mom")
	b := s.addTask("Call mom")

	Expect(a.ID).NotTo(Equal(b.ID))
	Expect(s.Svc.TotalTasksCount()).To(Equal(2))
}

func (s *ChecklistServiceSuite) TestAddTask_PersistsAcrossRestart() {
	task := s.addTask("Water the plants")

	restarted := s.rehydrate("2025-03-14")

	tasks := restarted.Tasks()
	Expect(tasks).To(HaveLen(1))
	Expect(tasks[0].ID).To(Equal(task.ID))
	Expect(tasks[0].Title).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestBeginEdit_PrefillsBuffer() {
	task := s.addTask("Water the plants")

	Expect(s.Svc.BeginEdit(task.ID)).To(BeTrue())

	id, buffer, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeTrue())
	Expect(id).To(Equal(task.ID))
	Expect(buffer).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestBeginEdit_UnknownTask() {
	Expect(s.Svc.BeginEdit(uuid.New())).To(BeFalse())

	_, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeFalse())
}

func (s *ChecklistServiceSuite) TestBeginEdit_IsExclusive() {
	first := s.addTask("First")
	second := s.addTask("Second")

	s.Svc.BeginEdit(first.ID)
	s.Svc.BeginEdit(second.ID)

	id, buffer, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeTrue())
	Expect(id).To(Equal(second.ID))
	Expect(buffer).To(Equal("Second"))
}

func (s *ChecklistServiceSuite) TestCommitEdit_RenamesAndLeavesEditMode() {
	task := s.addTask("Watr the plants")

	s.Svc.BeginEdit(task.ID)
	updated, err := s.Svc.CommitEdit(ctx, task.ID, "  Water the plants ")

	Expect(err).To(BeNil())
	Expect(updated).NotTo(BeNil())
	Expect(updated.Title).To(Equal("Water the plants"))
	Expect(updated.ID).To(Equal(task.ID))

	_, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeFalse())

	tasks := s.Svc.Tasks()
	Expect(tasks[0].Title).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestCommitEdit_BlankKeepsEditMode() {
	task := s.addTask("Water the plants")

	s.Svc.BeginEdit(task.ID)
	updated, err := s.Svc.CommitEdit(ctx, task.ID, "   ")

	Expect(err).To(BeNil())
	Expect(updated).To(BeNil())

	id, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeTrue())
	Expect(id).To(Equal(task.ID))

	Expect(s.Svc.Tasks()[0].Title).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestCommitEdit_IgnoredWhenNotEditing() {
	task := s.addTask("Water the plants")

	updated, err := s.Svc.CommitEdit(ctx, task.ID, "Hijacked")

	Expect(err).To(BeNil())
	Expect(updated).To(BeNil())
	Expect(s.Svc.Tasks()[0].Title).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestCommitEdit_IgnoredForOtherTask() {
	first := s.addTask("First")
	second := s.addTask("Second")

	s.Svc.BeginEdit(first.ID)
	updated, err := s.Svc.CommitEdit(ctx, second.ID, "Hijacked")

	Expect(err).To(BeNil())
	Expect(updated).To(BeNil())
	Expect(s.Svc.Tasks()[1].Title).To(Equal("Second"))
}

func (s *ChecklistServiceSuite) TestCommitEdit_PersistsRename() {
	task := s.addTask("Before")

	s.Svc.BeginEdit(task.ID)
	s.Svc.CommitEdit(ctx, task.ID, "After")

	restarted := s.rehydrate("2025-03-14")
	Expect(restarted.Tasks()[0].Title).To(Equal("After"))
}

func (s *ChecklistServiceSuite) TestCancelEdit_DiscardsBuffer() {
	task := s.addTask("Water the plants")

	s.Svc.BeginEdit(task.ID)
	s.Svc.CancelEdit()

	_, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeFalse())
	Expect(s.Svc.Tasks()[0].Title).To(Equal("Water the plants"))
}

func (s *ChecklistServiceSuite) TestToggleCompletion_MarksDoneToday() {
	task := s.addTask("Stretch")

	completed, err := s.Svc.ToggleCompletion(ctx, task.ID)

	Expect(err).To(BeNil())
	Expect(completed).To(BeTrue())
	Expect(s.Svc.IsCompletedToday(task.ID)).To(BeTrue())
	Expect(s.Svc.CompletedTodayCount()).To(Equal(1))
}

func (s *ChecklistServiceSuite) TestToggleCompletion_Involution() {
	task := s.addTask("Stretch")

	s.Svc.ToggleCompletion(ctx, task.ID)
	completed, err := s.Svc.ToggleCompletion(ctx, task.ID)

	Expect(err).To(BeNil())
	Expect(completed).To(BeFalse())
	Expect(s.Svc.IsCompletedToday(task.ID)).To(BeFalse())
	Expect(s.Svc.CompletedTodayCount()).To(Equal(0))
}

func (s *ChecklistServiceSuite) TestToggleCompletion_NeverDuplicates() {
	task := s.addTask("Stretch")

	for i := 0; i < 5; i++ {
		s.Svc.ToggleCompletion(ctx, task.ID)
	}

	Expect(s.Svc.CompletedTodayCount()).To(Equal(1))

	records, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())
	Expect(records).To(HaveLen(1))
}

func (s *ChecklistServiceSuite) TestToggleCompletion_UnknownTask() {
	_, err := s.Svc.ToggleCompletion(ctx, uuid.New())

	Expect(err).To(MatchError(service.ErrTaskNotFound))
}

func (s *ChecklistServiceSuite) TestToggleCompletion_IndependentPerTask() {
	first := s.addTask("First")
	second := s.addTask("Second")

	s.Svc.ToggleCompletion(ctx, first.ID)

	Expect(s.Svc.IsCompletedToday(first.ID)).To(BeTrue())
	Expect(s.Svc.IsCompletedToday(second.ID)).To(BeFalse())
	Expect(s.Svc.CompletedTodayCount()).To(Equal(1))
}

func (s *ChecklistServiceSuite) TestDeleteTask_RemovesTaskAndCompletions() {
	task := s.addTask("Stretch")
	keep := s.addTask("Read")

	s.Svc.ToggleCompletion(ctx, task.ID)
	s.Svc.ToggleCompletion(ctx, keep.ID)

	deleted, err := s.Svc.DeleteTask(ctx, task.ID)

	Expect(err).To(BeNil())
	Expect(deleted).To(BeTrue())
	Expect(s.Svc.TotalTasksCount()).To(Equal(1))
	Expect(s.Svc.CompletedTodayCount()).To(Equal(1))
	Expect(s.Svc.IsCompletedToday(keep.ID)).To(BeTrue())

	records, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())
	Expect(records).To(HaveLen(1))
	Expect(records[0].TaskID).To(Equal(keep.ID))
}

func (s *ChecklistServiceSuite) TestDeleteTask_UnknownTask() {
	_, err := s.Svc.DeleteTask(ctx, uuid.New())

	Expect(err).To(MatchError(service.ErrTaskNotFound))
}

func (s *ChecklistServiceSuite) TestDeleteTask_DeclinedConfirmation() {
	repo, _ := NewMemoryRepository()

	svc, err := service.NewChecklistService(ctx, repo, ClockAt("2025-03-14"),
		confirm.StaticConfirmer{Answer: false}, telemetry.NewNoOpProbe())
	Expect(err).To(BeNil())

	task, _ := svc.AddTask(ctx, "Stretch")

	deleted, err := svc.DeleteTask(ctx, task.ID)

	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())
	Expect(svc.TotalTasksCount()).To(Equal(1))
}

func (s *ChecklistServiceSuite) TestDeleteTask_ClearsEditStateForDeletedTask() {
	task := s.addTask("Stretch")

	s.Svc.BeginEdit(task.ID)
	s.Svc.DeleteTask(ctx, task.ID)

	_, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeFalse())
}

func (s *ChecklistServiceSuite) TestDeleteTask_KeepsUnrelatedEditState() {
	doomed := s.addTask("Doomed")
	edited := s.addTask("Edited")

	s.Svc.BeginEdit(edited.ID)
	s.Svc.DeleteTask(ctx, doomed.ID)

	id, _, editing := s.Svc.EditBuffer()
	Expect(editing).To(BeTrue())
	Expect(id).To(Equal(edited.ID))
}

func (s *ChecklistServiceSuite) TestResetTodayCompletions() {
	first := s.addTask("First")
	second := s.addTask("Second")

	s.Svc.ToggleCompletion(ctx, first.ID)
	s.Svc.ToggleCompletion(ctx, second.ID)

	reset, err := s.Svc.ResetTodayCompletions(ctx)

	Expect(err).To(BeNil())
	Expect(reset).To(BeTrue())
	Expect(s.Svc.CompletedTodayCount()).To(Equal(0))
	Expect(s.Svc.TotalTasksCount()).To(Equal(2))
}

func (s *ChecklistServiceSuite) TestResetTodayCompletions_Declined() {
	repo, _ := NewMemoryRepository()

	svc, err := service.NewChecklistService(ctx, repo, ClockAt("2025-03-14"),
		confirm.StaticConfirmer{Answer: false}, telemetry.NewNoOpProbe())
	Expect(err).To(BeNil())

	task, _ := svc.AddTask(ctx, "Stretch")
	svc.ToggleCompletion(ctx, task.ID)

	reset, err := svc.ResetTodayCompletions(ctx)

	Expect(err).To(BeNil())
	Expect(reset).To(BeFalse())
	Expect(svc.CompletedTodayCount()).To(Equal(1))
}

func (s *ChecklistServiceSuite) TestResetTodayCompletions_LeavesOtherDatesAlone() {
	task := s.addTask("Stretch")
	s.Svc.ToggleCompletion(ctx, task.ID)

	// Plant a stale record dated yesterday next to today's.
	records, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())

	stale := domain.CompletionRecord{TaskID: task.ID, Date: "2025-03-13"}
	Expect(s.Repo.SaveCompletions(ctx, append(records, stale))).To(Succeed())

	svc := s.rehydrate("2025-03-14")
	reset, err := svc.ResetTodayCompletions(ctx)

	Expect(err).To(BeNil())
	Expect(reset).To(BeTrue())

	remaining, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())
	Expect(remaining).To(HaveLen(1))
	Expect(remaining[0].Date).To(Equal("2025-03-13"))
}

func (s *ChecklistServiceSuite) TestHydrate_SameDayKeepsCompletions() {
	task := s.addTask("Stretch")
	s.Svc.ToggleCompletion(ctx, task.ID)

	restarted := s.rehydrate("2025-03-14")

	Expect(restarted.IsCompletedToday(task.ID)).To(BeTrue())
	Expect(restarted.CompletedTodayCount()).To(Equal(1))
}

func (s *ChecklistServiceSuite) TestHydrate_RolloverWipesCompletionsKeepsTasks() {
	task := s.addTask("Stretch")
	s.Svc.ToggleCompletion(ctx, task.ID)

	nextDay := s.rehydrate("2025-03-15")

	Expect(nextDay.SessionDate()).To(Equal("2025-03-15"))
	Expect(nextDay.TotalTasksCount()).To(Equal(1))
	Expect(nextDay.IsCompletedToday(task.ID)).To(BeFalse())
	Expect(nextDay.CompletedTodayCount()).To(Equal(0))

	// Wipe is persisted, not just in memory.
	records, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())
	Expect(records).To(BeEmpty())

	lastDate, err := s.Repo.LoadLastCompletionDate(ctx)
	Expect(err).To(BeNil())
	Expect(lastDate).To(Equal("2025-03-15"))
}

func (s *ChecklistServiceSuite) TestHydrate_EmptyStore() {
	repo, _ := NewMemoryRepository()
	svc := NewChecklistService(s.T(), repo, ClockAt("2025-03-14"))

	Expect(svc.TotalTasksCount()).To(Equal(0))
	Expect(svc.CompletedTodayCount()).To(Equal(0))

	lastDate, err := repo.LoadLastCompletionDate(ctx)
	Expect(err).To(BeNil())
	Expect(lastDate).To(Equal("2025-03-14"))
}

func (s *ChecklistServiceSuite) TestHydrate_SessionDateFrozen() {
	// Toggles after midnight still count against the hydration date.
	task := s.addTask("Stretch")
	s.Svc.ToggleCompletion(ctx, task.ID)

	records, _, err := s.Repo.LoadCompletions(ctx)
	Expect(err).To(BeNil())
	Expect(records[0].Date).To(Equal(s.Svc.SessionDate()))
}
