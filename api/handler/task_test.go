package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/focusflow/backend/api/transport"
	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
	taskUC "github.com/focusflow/backend/usecase/task"
)

type stubTaskRepo struct {
	tasks map[string]*domain.Task
}

func (s *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if task, ok := s.tasks[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (s *stubTaskRepo) ListByOwner(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range s.tasks {
		if task.OwnerID == filter.OwnerID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	s.tasks[task.ID] = task
	return task, nil
}

func (s *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *stubTaskRepo) SetCompleted(_ context.Context, task *domain.Task) error {
	s.tasks[task.ID] = task
	return nil
}

func (s *stubTaskRepo) Delete(_ context.Context, id string) error {
	delete(s.tasks, id)
	return nil
}

func newTestHandler(tasks ...*domain.Task) (*TaskHandler, *stubTaskRepo) {
	repo := &stubTaskRepo{tasks: make(map[string]*domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return NewTaskHandler(taskUC.New(repo, nil), nil, nil), repo
}

func authedCtx(method, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.Header.Set("X-User-ID", "u1")
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestTaskHandlerList(t *testing.T) {
	h, _ := newTestHandler(
		&domain.Task{ID: "1", OwnerID: "u1", Priority: domain.PriorityHigh, Completed: true},
		&domain.Task{ID: "2", OwnerID: "u1", Priority: domain.PriorityLow},
	)

	ctx := authedCtx(http.MethodGet, "")
	ctx.QueryArgs().Set("priority", string(domain.PriorityHigh))
	h.List(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	envelope := decodeEnvelope(t, ctx)
	if envelope.Status != "success" {
		t.Fatalf("unexpected status %q", envelope.Status)
	}
	meta, ok := envelope.Meta.(map[string]interface{})
	if !ok {
		t.Fatalf("missing meta: %+v", envelope.Meta)
	}
	if meta["priority"] != string(domain.PriorityHigh) {
		t.Fatalf("unexpected meta priority: %v", meta["priority"])
	}
	if meta["overall_progress"] != float64(100) {
		t.Fatalf("unexpected overall progress: %v", meta["overall_progress"])
	}
}

func TestTaskHandlerListRequiresUser(t *testing.T) {
	h, _ := newTestHandler()

	ctx := &fasthttp.RequestCtx{}
	h.List(ctx)

	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Run("valid payload creates the task", func(t *testing.T) {
		h, repo := newTestHandler()

		body := `{"title":"Buy milk","description":"Weekly groceries","priority":"Alta"}`
		ctx := authedCtx(http.MethodPost, body)
		h.Create(ctx)

		if ctx.Response.StatusCode() != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
		}
		if len(repo.tasks) != 1 {
			t.Fatalf("expected one stored task, got %d", len(repo.tasks))
		}
	})

	t.Run("blank title is a 400", func(t *testing.T) {
		h, repo := newTestHandler()

		body := `{"title":"  ","description":"d","priority":"Alta"}`
		ctx := authedCtx(http.MethodPost, body)
		h.Create(ctx)

		if ctx.Response.StatusCode() != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
		}
		if len(repo.tasks) != 0 {
			t.Fatal("nothing may be stored on validation failure")
		}
	})

	t.Run("detailed create without sub-items is a 400", func(t *testing.T) {
		h, _ := newTestHandler()

		body := `{"title":"Buy milk","description":"d","priority":"Alta"}`
		ctx := authedCtx(http.MethodPost, body)
		h.CreateDetailed(ctx)

		if ctx.Response.StatusCode() != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
		}
	})
}

func TestTaskHandlerToggle(t *testing.T) {
	h, _ := newTestHandler(&domain.Task{
		ID:      "t1",
		OwnerID: "u1",
		Title:   "Buy milk",
		SubItems: []domain.SubItem{
			{Name: "find store", Completed: true},
			{Name: "pay"},
		},
		Progress: 50,
	})

	ctx := authedCtx(http.MethodPost, "")
	ctx.SetUserValue("id", "t1")
	ctx.SetUserValue("index", "1")
	h.ToggleSubItem(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	envelope := decodeEnvelope(t, ctx)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("missing data: %+v", envelope.Data)
	}
	if data["progress"] != float64(100) {
		t.Fatalf("unexpected progress: %v", data["progress"])
	}
	if data["all_complete"] != true {
		t.Fatalf("expected the all-complete signal, got %v", data["all_complete"])
	}
}

func TestTaskHandlerComplete(t *testing.T) {
	h, repo := newTestHandler(&domain.Task{ID: "t1", OwnerID: "u1", Title: "Buy milk"})

	ctx := authedCtx(http.MethodPost, "")
	ctx.SetUserValue("id", "t1")
	h.Complete(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	if !repo.tasks["t1"].Completed {
		t.Fatal("task not completed in the store")
	}

	// The second complete hits the conflict guard.
	ctx = authedCtx(http.MethodPost, "")
	ctx.SetUserValue("id", "t1")
	h.Complete(ctx)
	if ctx.Response.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %d", ctx.Response.StatusCode())
	}
}

func TestTaskHandlerDelete(t *testing.T) {
	t.Run("foreign task is a 404", func(t *testing.T) {
		h, repo := newTestHandler(&domain.Task{ID: "t1", OwnerID: "someone-else"})

		ctx := authedCtx(http.MethodDelete, "")
		ctx.SetUserValue("id", "t1")
		h.Delete(ctx)

		if ctx.Response.StatusCode() != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", ctx.Response.StatusCode())
		}
		if len(repo.tasks) != 1 {
			t.Fatal("foreign task must not be deleted")
		}
	})

	t.Run("owned task is removed", func(t *testing.T) {
		h, repo := newTestHandler(&domain.Task{ID: "t1", OwnerID: "u1"})

		ctx := authedCtx(http.MethodDelete, "")
		ctx.SetUserValue("id", "t1")
		h.Delete(ctx)

		if ctx.Response.StatusCode() != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", ctx.Response.StatusCode())
		}
		if len(repo.tasks) != 0 {
			t.Fatal("task not removed")
		}
	})
}
