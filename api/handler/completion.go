package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/peerassist/backend/api/transport"
	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/pkg/httpcontext"
	completionUC "github.com/peerassist/backend/usecase/completion"
)

type CompletionHandler struct {
	baseHandler
	uc *completionUC.UseCase
}

func NewCompletionHandler(uc *completionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Request task completion (selected worker)
// @Tags completion
// @Router /api/v1/tasks/{id}/end [post]
func (h *CompletionHandler) RequestCompletion(ctx *fasthttp.RequestCtx) {
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

	task, err := h.uc.Request(stdCtx, id, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"message":    "completion code sent to the task owner",
		"task_id":    task.ID,
		"task_title": task.Title,
	})
}

// @Summary Validate a completion code (owner)
// @Tags completion
// @Router /api/v1/tasks/validate-completion [post]
func (h *CompletionHandler) ValidateCompletion(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	var req transport.ValidateCompletionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.TaskID == "" || req.OTP == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Verify(stdCtx, req.TaskID, email, req.OTP)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"message": "task completed successfully",
		"task_id": task.ID,
		"status":  task.Status,
	})
}
