package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/peerassist/backend/api/transport"
	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/pkg/httpcontext"
	applicationUC "github.com/peerassist/backend/usecase/application"
)

type ApplicationHandler struct {
	baseHandler
	uc *applicationUC.UseCase
}

func NewApplicationHandler(uc *applicationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Apply for a task
// @Tags applications
// @Router /api/v1/tasks/{id}/apply [post]
func (h *ApplicationHandler) Apply(ctx *fasthttp.RequestCtx) {
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

	task, err := h.uc.Apply(stdCtx, id, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"message": "successfully applied for task",
		"task_id": task.ID,
	})
}

// @Summary Accept an applicant (owner only)
// @Tags applications
// @Router /api/v1/tasks/{id}/accept/{applicant} [post]
func (h *ApplicationHandler) Accept(ctx *fasthttp.RequestCtx) {
	email := h.callerEmail(ctx)
	if email == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	applicant, _ := ctx.UserValue("applicant").(string)
	if id == "" || applicant == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id or applicant", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Accept(stdCtx, id, applicant, email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}
