package task

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
)

// UseCase is the task store adapter: it owns validation, derived progress
// state and the completion lifecycle, delegating persistence to the
// repository. It holds no locks and assumes a single in-flight mutation per
// task; overlapping writers race with last-write-wins semantics.
type UseCase struct {
	tasks    repository.TaskRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// CreateInput carries the user-editable fields of a task.
type CreateInput struct {
	Title       string           `validate:"required,notblank"`
	Description string           `validate:"required,notblank"`
	Priority    domain.Priority  `validate:"required,priority"`
	SubItems    []domain.SubItem
}

// UpdateInput is a full-field update; every field is written.
type UpdateInput struct {
	Title       string           `validate:"required,notblank"`
	Description string           `validate:"required,notblank"`
	Priority    domain.Priority  `validate:"required,priority"`
	Completed   bool             `validate:"-"`
	SubItems    []domain.SubItem
}

// ListResult pairs the visible tasks with the dashboard's completion ratio
// over exactly that set.
type ListResult struct {
	Tasks           []domain.Task
	OverallProgress float64
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}

	validate := validator.New()
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return domain.Priority(fl.Field().String()).IsValid()
	})

	return &UseCase{
		tasks:    tasks,
		validate: validate,
		logger:   logger,
	}
}

// List returns the owner's tasks filtered by the priority selector, together
// with the overall progress of the filtered view. The store is queried by
// owner only; priority filtering happens in memory so the relative order of
// the stored result is preserved.
func (uc *UseCase) List(ctx context.Context, ownerID, selector string) (*ListResult, error) {
	tasks, err := uc.tasks.ListByOwner(ctx, repository.TaskFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	visible := domain.FilterByPriority(tasks, selector)
	return &ListResult{
		Tasks:           visible,
		OverallProgress: domain.ComputeOverallProgress(visible),
	}, nil
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// Create persists a new task without a checklist. Validation failures are
// reported before any store call is made.
func (uc *UseCase) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Task, error) {
	input.SubItems = nil
	return uc.create(ctx, ownerID, input)
}

// CreateDetailed persists a new task with a checklist; at least one entry is
// required on this path.
func (uc *UseCase) CreateDetailed(ctx context.Context, ownerID string, input CreateInput) (*domain.Task, error) {
	if len(input.SubItems) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "at least one sub-item is required")
	}
	return uc.create(ctx, ownerID, input)
}

func (uc *UseCase) create(ctx context.Context, ownerID string, input CreateInput) (*domain.Task, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}
	items, err := normalizeSubItems(input.SubItems)
	if err != nil {
		return nil, err
	}
	input.SubItems = items

	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Completed:   false,
		SubItems:    input.SubItems,
	}
	task.Recalculate()

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created",
		zap.String("task_id", created.ID),
		zap.String("owner_id", ownerID),
		zap.Int("sub_items", len(created.SubItems)))
	return created, nil
}

// ToggleSubItem flips the completion of one checklist entry, recomputes the
// cached progress and persists the task. The returned flag reports whether
// the toggle left every entry complete; the caller may then offer the user a
// completion confirmation. The task's completed flag is never changed here.
func (uc *UseCase) ToggleSubItem(ctx context.Context, task *domain.Task, index int) (bool, error) {
	if task == nil {
		return false, domain.ErrInvalidPayload
	}
	if task.IsCompleted() {
		return false, domain.ErrTaskCompleted
	}
	if index < 0 || index >= len(task.SubItems) {
		return false, domain.ErrSubItemIndex
	}

	task.SubItems[index].Completed = !task.SubItems[index].Completed
	task.Recalculate()

	if err := uc.tasks.Update(ctx, task); err != nil {
		// Roll the in-memory flip back so the caller's view matches the store.
		task.SubItems[index].Completed = !task.SubItems[index].Completed
		task.Recalculate()
		return false, err
	}

	return domain.AllComplete(task.SubItems), nil
}

// MarkCompleted confirms the task as done, persisting the flag together with
// the current checklist and progress snapshot in one update. There is no way
// back to active; only deletion is accepted afterwards.
func (uc *UseCase) MarkCompleted(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.IsCompleted() {
		return domain.ErrTaskCompleted
	}

	task.Completed = true
	task.Recalculate()

	if err := uc.tasks.SetCompleted(ctx, task); err != nil {
		task.Completed = false
		return err
	}
	uc.logger.Info("task completed", zap.String("task_id", task.ID))
	return nil
}

// Update rewrites every user-editable field. Completed tasks reject edits;
// the reference flow only ever deletes them.
func (uc *UseCase) Update(ctx context.Context, task *domain.Task, input UpdateInput) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.IsCompleted() {
		return domain.ErrTaskCompleted
	}
	if err := uc.validateInput(input); err != nil {
		return err
	}
	items, err := normalizeSubItems(input.SubItems)
	if err != nil {
		return err
	}
	input.SubItems = items

	task.Title = strings.TrimSpace(input.Title)
	task.Description = strings.TrimSpace(input.Description)
	task.Priority = input.Priority
	task.Completed = input.Completed
	task.SubItems = input.SubItems
	task.Recalculate()

	return uc.tasks.Update(ctx, task)
}

// Delete removes the task permanently. There is no undo and no soft delete.
func (uc *UseCase) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uc.Get(ctx, id, ownerID); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// normalizeSubItems trims every checklist name and rejects entries that are
// blank after trimming.
func normalizeSubItems(items []domain.SubItem) ([]domain.SubItem, error) {
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		if items[i].Name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid field: sub-item name")
		}
	}
	return items, nil
}

func (uc *UseCase) validateInput(input any) error {
	if err := uc.validate.Struct(input); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return domain.NewError(domain.ErrCodeInvalid, "invalid field: "+strings.ToLower(fields[0].Field()))
		}
		return domain.ErrInvalidPayload
	}
	return nil
}
