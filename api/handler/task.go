package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/focusflow/backend/api/transport"
	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/pkg/httpcontext"
	taskUC "github.com/focusflow/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks filtered by priority
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	selector := string(ctx.QueryArgs().Peek("priority"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.List(stdCtx, userID, selector)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	meta := transport.TaskListMeta{
		Priority:        selector,
		OverallProgress: result.OverallProgress,
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(result.Tasks, meta))
}

// @Summary Create a task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	h.create(ctx, false)
}

// @Summary Create a task with a checklist
// @Tags tasks
// @Router /api/v1/tasks/detailed [post]
func (h *TaskHandler) CreateDetailed(ctx *fasthttp.RequestCtx) {
	h.create(ctx, true)
}

func (h *TaskHandler) create(ctx *fasthttp.RequestCtx, detailed bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	input := taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		SubItems:    toSubItems(req.SubItems),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		task *domain.Task
		err  error
	)
	if detailed {
		task, err = h.uc.CreateDetailed(stdCtx, userID, input)
	} else {
		task, err = h.uc.Create(stdCtx, userID, input)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary Fetch a single task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathValue(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Rewrite a task's editable fields
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathValue(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	input := taskUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Completed:   req.Completed,
		SubItems:    toSubItems(req.SubItems),
	}
	if err := h.uc.Update(stdCtx, task, input); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Flip one checklist entry
// @Tags tasks
// @Router /api/v1/tasks/{id}/subitems/{index}/toggle [post]
func (h *TaskHandler) ToggleSubItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	index, err := strconv.Atoi(pathValue(ctx, "index"))
	if err != nil {
		h.respondInvalid(ctx, "invalid sub-item index")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathValue(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	allComplete, err := h.uc.ToggleSubItem(stdCtx, task, index)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ToggleResponse{
		TaskID:      task.ID,
		Progress:    task.Progress,
		AllComplete: allComplete,
	})
}

// @Summary Confirm a task as done
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathValue(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.uc.MarkCompleted(stdCtx, task); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete a task permanently
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, pathValue(ctx, "id"), userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func pathValue(ctx *fasthttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func toSubItems(items []transport.SubItemRequest) []domain.SubItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.SubItem, len(items))
	for i, item := range items {
		out[i] = domain.SubItem{Name: item.Name, Completed: item.Completed}
	}
	return out
}
