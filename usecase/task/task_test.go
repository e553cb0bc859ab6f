package task

import (
	"context"
	"errors"
	"testing"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
)

// fakeTaskRepo records calls and serves canned tasks keyed by ID.
type fakeTaskRepo struct {
	tasks map[string]*domain.Task

	createCalls   int
	updateCalls   int
	completeCalls int
	deleteCalls   int

	updateErr   error
	completeErr error
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if task, ok := f.tasks[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTaskRepo) ListByOwner(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.OwnerID == filter.OwnerID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	f.createCalls++
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) SetCompleted(_ context.Context, task *domain.Task) error {
	f.completeCalls++
	if f.completeErr != nil {
		return f.completeErr
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	f.deleteCalls++
	delete(f.tasks, id)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "Buy milk",
		Description: "Weekly groceries",
		Priority:    domain.PriorityHigh,
	}
}

func TestCreate(t *testing.T) {
	t.Run("blank title is rejected before the store", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.Title = "   "
		if _, err := uc.Create(context.Background(), "u1", input); err == nil {
			t.Fatal("expected validation error")
		}
		if repo.createCalls != 0 {
			t.Fatalf("store was called %d times", repo.createCalls)
		}
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.Priority = "urgent"
		if _, err := uc.Create(context.Background(), "u1", input); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("simple create drops any checklist", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.SubItems = []domain.SubItem{{Name: "ignored"}}
		task, err := uc.Create(context.Background(), "u1", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(task.SubItems) != 0 {
			t.Fatalf("expected no checklist, got %+v", task.SubItems)
		}
		if task.Completed {
			t.Fatal("new task must start incomplete")
		}
		if task.Progress != 0 {
			t.Fatalf("expected zero progress, got %v", task.Progress)
		}
	})

	t.Run("detailed create requires a checklist", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		if _, err := uc.CreateDetailed(context.Background(), "u1", validInput()); err == nil {
			t.Fatal("expected error without sub-items")
		}
		if repo.createCalls != 0 {
			t.Fatalf("store was called %d times", repo.createCalls)
		}
	})

	t.Run("blank sub-item name is rejected before the store", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.SubItems = []domain.SubItem{
			{Name: "step one"},
			{Name: "   "},
		}
		if _, err := uc.CreateDetailed(context.Background(), "u1", input); err == nil {
			t.Fatal("expected validation error")
		}
		if repo.createCalls != 0 {
			t.Fatalf("store was called %d times", repo.createCalls)
		}
	})

	t.Run("sub-item names are trimmed on create", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.SubItems = []domain.SubItem{{Name: "  step one  "}}
		task, err := uc.CreateDetailed(context.Background(), "u1", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.SubItems[0].Name != "step one" {
			t.Fatalf("name not trimmed: %q", task.SubItems[0].Name)
		}
	})

	t.Run("detailed create keeps the checklist and derives progress", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		input := validInput()
		input.SubItems = []domain.SubItem{
			{Name: "step one", Completed: true},
			{Name: "step two"},
		}
		task, err := uc.CreateDetailed(context.Background(), "u1", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(task.SubItems) != 2 {
			t.Fatalf("expected 2 sub-items, got %d", len(task.SubItems))
		}
		if task.Progress != 50 {
			t.Fatalf("expected 50, got %v", task.Progress)
		}
	})
}

func TestList(t *testing.T) {
	repo := newFakeTaskRepo(
		&domain.Task{ID: "1", OwnerID: "u1", Priority: domain.PriorityHigh, Completed: true},
		&domain.Task{ID: "2", OwnerID: "u1", Priority: domain.PriorityLow},
		&domain.Task{ID: "3", OwnerID: "u2", Priority: domain.PriorityHigh},
	)
	uc := New(repo, nil)

	t.Run("filters by owner and priority", func(t *testing.T) {
		result, err := uc.List(context.Background(), "u1", string(domain.PriorityHigh))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Tasks) != 1 || result.Tasks[0].ID != "1" {
			t.Fatalf("unexpected tasks: %+v", result.Tasks)
		}
		if result.OverallProgress != 100 {
			t.Fatalf("expected 100 over the filtered view, got %v", result.OverallProgress)
		}
	})

	t.Run("all selector keeps every owned task", func(t *testing.T) {
		result, err := uc.List(context.Background(), "u1", domain.PrioritySelectorAll)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(result.Tasks))
		}
		if result.OverallProgress != 50 {
			t.Fatalf("expected 50, got %v", result.OverallProgress)
		}
	})
}

func TestToggleSubItem(t *testing.T) {
	newTask := func() *domain.Task {
		return &domain.Task{
			ID:      "t1",
			OwnerID: "u1",
			Title:   "Buy milk",
			SubItems: []domain.SubItem{
				{Name: "find store", Completed: true},
				{Name: "pay"},
			},
			Progress: 50,
		}
	}

	t.Run("last toggle reports all complete without completing", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		task := newTask()
		allComplete, err := uc.ToggleSubItem(context.Background(), task, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allComplete {
			t.Fatal("expected all-complete signal")
		}
		if task.Completed {
			t.Fatal("toggle must not flip the completed flag")
		}
		if task.Progress != 100 {
			t.Fatalf("expected 100, got %v", task.Progress)
		}
		if repo.updateCalls != 1 {
			t.Fatalf("expected one update, got %d", repo.updateCalls)
		}
	})

	t.Run("toggling back down clears the signal", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), nil)

		task := newTask()
		allComplete, err := uc.ToggleSubItem(context.Background(), task, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allComplete {
			t.Fatal("unexpected all-complete signal")
		}
		if task.Progress != 0 {
			t.Fatalf("expected 0, got %v", task.Progress)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), nil)

		task := newTask()
		if _, err := uc.ToggleSubItem(context.Background(), task, 2); !errors.Is(err, domain.ErrSubItemIndex) {
			t.Fatalf("expected sub-item index error, got %v", err)
		}
	})

	t.Run("completed task rejects toggles", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), nil)

		task := newTask()
		task.Completed = true
		if _, err := uc.ToggleSubItem(context.Background(), task, 0); !errors.Is(err, domain.ErrTaskCompleted) {
			t.Fatalf("expected completed-task error, got %v", err)
		}
	})

	t.Run("store failure rolls the flip back", func(t *testing.T) {
		repo := newFakeTaskRepo()
		repo.updateErr = domain.ErrStoreUnavailable
		uc := New(repo, nil)

		task := newTask()
		if _, err := uc.ToggleSubItem(context.Background(), task, 1); err == nil {
			t.Fatal("expected error")
		}
		if task.SubItems[1].Completed {
			t.Fatal("flip was not rolled back")
		}
		if task.Progress != 50 {
			t.Fatalf("progress not restored, got %v", task.Progress)
		}
	})
}

func TestMarkCompleted(t *testing.T) {
	t.Run("sets the flag through the store", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		task := &domain.Task{ID: "t1", OwnerID: "u1", Title: "Buy milk"}
		if err := uc.MarkCompleted(context.Background(), task); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !task.Completed {
			t.Fatal("expected completed flag")
		}
		if repo.completeCalls != 1 {
			t.Fatalf("expected one complete call, got %d", repo.completeCalls)
		}
	})

	t.Run("already completed is rejected", func(t *testing.T) {
		uc := New(newFakeTaskRepo(), nil)

		task := &domain.Task{ID: "t1", Completed: true}
		if err := uc.MarkCompleted(context.Background(), task); !errors.Is(err, domain.ErrTaskCompleted) {
			t.Fatalf("expected completed-task error, got %v", err)
		}
	})

	t.Run("store failure leaves the task active", func(t *testing.T) {
		repo := newFakeTaskRepo()
		repo.completeErr = domain.ErrStoreUnavailable
		uc := New(repo, nil)

		task := &domain.Task{ID: "t1"}
		if err := uc.MarkCompleted(context.Background(), task); err == nil {
			t.Fatal("expected error")
		}
		if task.Completed {
			t.Fatal("flag must be reset on store failure")
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("completed task rejects edits", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		task := &domain.Task{ID: "t1", Completed: true}
		input := UpdateInput{Title: "New", Description: "d", Priority: domain.PriorityLow}
		if err := uc.Update(context.Background(), task, input); !errors.Is(err, domain.ErrTaskCompleted) {
			t.Fatalf("expected completed-task error, got %v", err)
		}
		if repo.updateCalls != 0 {
			t.Fatal("store must not be touched")
		}
	})

	t.Run("blank sub-item name is rejected", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		task := &domain.Task{ID: "t1", Title: "Old", Priority: domain.PriorityHigh}
		input := UpdateInput{
			Title:       "New",
			Description: "d",
			Priority:    domain.PriorityLow,
			SubItems:    []domain.SubItem{{Name: ""}},
		}
		if err := uc.Update(context.Background(), task, input); err == nil {
			t.Fatal("expected validation error")
		}
		if repo.updateCalls != 0 {
			t.Fatal("store must not be touched")
		}
	})

	t.Run("rewrites every field and refreshes progress", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil)

		task := &domain.Task{ID: "t1", Title: "Old", Priority: domain.PriorityHigh}
		input := UpdateInput{
			Title:       "  New title  ",
			Description: "changed",
			Priority:    domain.PriorityLow,
			SubItems: []domain.SubItem{
				{Name: "a", Completed: true},
				{Name: "b", Completed: true},
			},
		}
		if err := uc.Update(context.Background(), task, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.Title != "New title" {
			t.Fatalf("title not trimmed: %q", task.Title)
		}
		if task.Priority != domain.PriorityLow {
			t.Fatalf("priority not updated: %q", task.Priority)
		}
		if task.Progress != 100 {
			t.Fatalf("progress not refreshed: %v", task.Progress)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("foreign task is not found", func(t *testing.T) {
		repo := newFakeTaskRepo(&domain.Task{ID: "t1", OwnerID: "u1"})
		uc := New(repo, nil)

		if err := uc.Delete(context.Background(), "t1", "u2"); err == nil {
			t.Fatal("expected not-found error")
		}
		if repo.deleteCalls != 0 {
			t.Fatal("store delete must not run for a foreign task")
		}
	})

	t.Run("owned task is removed", func(t *testing.T) {
		repo := newFakeTaskRepo(&domain.Task{ID: "t1", OwnerID: "u1"})
		uc := New(repo, nil)

		if err := uc.Delete(context.Background(), "t1", "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deleteCalls != 1 {
			t.Fatalf("expected one delete, got %d", repo.deleteCalls)
		}
	})
}
