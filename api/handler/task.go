package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/peerassist/backend/api/transport"
	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/pkg/httpcontext"
	taskUC "github.com/peerassist/backend/usecase/task"
	"github.com/peerassist/backend/usecase/taskview"
)

type TaskHandler struct {
	baseHandler
	tasks *taskUC.UseCase
	views *taskview.UseCase
}

func NewTaskHandler(tasks *taskUC.UseCase, views *taskview.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		views:       views,
	}
}

// @Summary Post or edit a task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) PostTask(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	input := taskUC.Input{
		Title:            req.Title,
		Description:      req.Description,
		TaskTime:         req.TaskTime,
		TaskDate:         req.TaskDate,
		EstimatedPayRate: req.EstimatedPayRate,
		PlaceOfWork:      req.PlaceOfWork,
		WorkType:         req.WorkType,
		PeopleNeeded:     req.PeopleNeeded,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if req.ID != "" {
		updated, err := h.tasks.Update(stdCtx, email, req.ID, input)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, updated)
		return
	}

	created, err := h.tasks.Create(stdCtx, email, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Task feed for the caller
// @Tags tasks
// @Router /api/v1/tasks/feed [get]
func (h *TaskHandler) Feed(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	filter := taskview.FeedFilter{
		Category: string(ctx.QueryArgs().Peek("category")),
		FromDate: string(ctx.QueryArgs().Peek("from_date")),
		ToDate:   string(ctx.QueryArgs().Peek("to_date")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.views.Feed(stdCtx, email, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// @Summary Tasks the caller applied to
// @Tags tasks
// @Router /api/v1/tasks/applied [get]
func (h *TaskHandler) Applied(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.views.Applied(stdCtx, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"applied_tasks": tasks,
		"count":         len(tasks),
	})
}

// @Summary Tasks the caller is selected to work on
// @Tags tasks
// @Router /api/v1/tasks/scheduled [get]
func (h *TaskHandler) Scheduled(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.views.Scheduled(stdCtx, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"scheduled_tasks": tasks,
		"count":           len(tasks),
	})
}

// @Summary Tasks the caller posted
// @Tags tasks
// @Router /api/v1/tasks/created [get]
func (h *TaskHandler) Created(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.views.Created(stdCtx, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// @Summary Owner view of a task with applicants
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.views.GetTaskWithApplicants(stdCtx, id, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
