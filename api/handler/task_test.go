package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/middleware"
	profileUC "github.com/taskhive/backend/usecase/profile"
	taskUC "github.com/taskhive/backend/usecase/task"
)

type memTaskRepo struct {
	tasks map[string]domain.Task
}

func (m *memTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (m *memTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *memTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	m.tasks[task.ID] = *task
	return task, nil
}

func (m *memTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memTaskRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

type memUserRepo struct {
	users []*domain.User
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.users = append(m.users, user)
	return nil
}

func newTestHandler() (*TaskHandler, *memTaskRepo) {
	taskRepo := &memTaskRepo{tasks: map[string]domain.Task{}}
	userRepo := &memUserRepo{users: []*domain.User{
		{ID: "id1", Username: "johndoe", Email: "johndoe@example.com"},
		{ID: "id2", Username: "janedoe", Email: "janedoe@example.com"},
	}}
	handler := NewTaskHandler(
		taskUC.New(taskRepo, nil),
		profileUC.New(userRepo, nil),
		nil,
		nil,
	)
	return handler, taskRepo
}

func newRequestCtx(username, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/api/v1/tasks")
	if username != "" {
		ctx.Request.Header.Set(middleware.HeaderUsername, username)
	}
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return ctx
}

func decodeData(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status string                 `json:"status"`
		Code   string                 `json:"code"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return envelope.Data
}

func TestCreateTask(t *testing.T) {
	handler, _ := newTestHandler()

	ctx := newRequestCtx("johndoe", `{"title":"Task 1","priority":"high"}`)
	handler.CreateTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	data := decodeData(t, ctx)
	assert.Equal(t, "Task 1", data["title"])
	assert.Equal(t, "to_do", data["state"])
	assert.Equal(t, "high", data["priority"])
	assert.Equal(t, "id1", data["user_id"])
}

func TestCreateTaskBlankTitle(t *testing.T) {
	handler, repo := newTestHandler()

	ctx := newRequestCtx("johndoe", `{"title":""}`)
	handler.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, repo.tasks)
}

func TestCreateTaskUnknownIdentity(t *testing.T) {
	handler, _ := newTestHandler()

	ctx := newRequestCtx("ghost", `{"title":"Task"}`)
	handler.CreateTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestCreateTaskMissingIdentity(t *testing.T) {
	handler, _ := newTestHandler()

	ctx := newRequestCtx("", `{"title":"Task"}`)
	handler.CreateTask(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestGetTaskOwnershipGate(t *testing.T) {
	handler, repo := newTestHandler()
	repo.tasks["t1"] = domain.Task{ID: "t1", OwnerID: "id1", Title: "mine"}

	// owner sees the task
	ctx := newRequestCtx("johndoe", "")
	ctx.SetUserValue("id", "t1")
	handler.GetTask(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	// a different user is rejected
	ctx = newRequestCtx("janedoe", "")
	ctx.SetUserValue("id", "t1")
	handler.GetTask(ctx)
	assert.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
}

func TestGetTaskNotFound(t *testing.T) {
	handler, _ := newTestHandler()

	ctx := newRequestCtx("johndoe", "")
	ctx.SetUserValue("id", "missing")
	handler.GetTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestUpdateTaskAppliesPatch(t *testing.T) {
	handler, repo := newTestHandler()
	repo.tasks["t1"] = domain.Task{ID: "t1", OwnerID: "id1", Title: "old", State: domain.StateToDo, Priority: domain.PriorityLow}

	ctx := newRequestCtx("johndoe", `{"state":"done"}`)
	ctx.SetUserValue("id", "t1")
	handler.UpdateTask(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	stored := repo.tasks["t1"]
	assert.Equal(t, domain.StateDone, stored.State)
	assert.Equal(t, "old", stored.Title)
}

func TestUpdateTaskInvalidState(t *testing.T) {
	handler, repo := newTestHandler()
	repo.tasks["t1"] = domain.Task{ID: "t1", OwnerID: "id1", Title: "old", State: domain.StateToDo}

	ctx := newRequestCtx("johndoe", `{"state":"archived"}`)
	ctx.SetUserValue("id", "t1")
	handler.UpdateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, domain.StateToDo, repo.tasks["t1"].State)
}

func TestDeleteTask(t *testing.T) {
	handler, repo := newTestHandler()
	repo.tasks["t1"] = domain.Task{ID: "t1", OwnerID: "id1", Title: "doomed"}

	ctx := newRequestCtx("johndoe", "")
	ctx.SetUserValue("id", "t1")
	handler.DeleteTask(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, repo.tasks)
}

func TestListTasksFiltersByOwner(t *testing.T) {
	handler, repo := newTestHandler()
	repo.tasks["t1"] = domain.Task{ID: "t1", OwnerID: "id1"}
	repo.tasks["t2"] = domain.Task{ID: "t2", OwnerID: "id1"}
	repo.tasks["t3"] = domain.Task{ID: "t3", OwnerID: "id2"}

	ctx := newRequestCtx("johndoe", "")
	handler.ListTasks(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var envelope struct {
		Data []domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	require.Len(t, envelope.Data, 2)
	for _, task := range envelope.Data {
		assert.Equal(t, "id1", task.OwnerID)
	}
}
