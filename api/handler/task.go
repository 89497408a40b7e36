package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	profileUC "github.com/taskhive/backend/usecase/profile"
	taskUC "github.com/taskhive/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, profiles *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, profiles, logger),
		uc:          uc,
	}
}

// @Summary List tasks for the authenticated user
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, ok := h.resolveUser(stdCtx, ctx)
	if !ok {
		return
	}

	tasks, err := h.uc.ListByOwner(stdCtx, user.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get a task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, ok := h.resolveUser(stdCtx, ctx)
	if !ok {
		return
	}

	task, ok := h.ownedTask(stdCtx, ctx, user)
	if !ok {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, ok := h.resolveUser(stdCtx, ctx)
	if !ok {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	input := taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}

	created, err := h.uc.Create(stdCtx, input, user.ID, h.timezone(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Partially update a task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, ok := h.resolveUser(stdCtx, ctx)
	if !ok {
		return
	}

	task, ok := h.ownedTask(stdCtx, ctx, user)
	if !ok {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	updated, err := h.uc.Update(stdCtx, task.ID, req.Patch(), h.timezone(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, ok := h.resolveUser(stdCtx, ctx)
	if !ok {
		return
	}

	task, ok := h.ownedTask(stdCtx, ctx, user)
	if !ok {
		return
	}

	if err := h.uc.Delete(stdCtx, task.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// ownedTask fetches the path task and applies the ownership gate: callers
// only ever see their own tasks.
func (h *TaskHandler) ownedTask(stdCtx context.Context, ctx *fasthttp.RequestCtx, user *domain.User) (*domain.Task, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return nil, false
	}

	task, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	if task.OwnerID != user.ID {
		h.logger.Warn("ownership gate rejected request",
			zap.String("task_id", task.ID), zap.String("user_id", user.ID))
		h.respondJSON(ctx, http.StatusForbidden, transport.NewError(string(domain.ErrCodeForbidden), "not authorized to access this task", nil))
		return nil, false
	}
	return task, true
}

func (h *TaskHandler) timezone(ctx *fasthttp.RequestCtx) string {
	return string(ctx.QueryArgs().Peek("timezone"))
}
