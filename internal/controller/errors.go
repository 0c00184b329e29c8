package controller

import (
	"errors"
	"net/http"

	"gabigame_backend/internal/model"
	"gabigame_backend/internal/util"
	"gabigame_backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// respondError 将业务错误映射为 HTTP 状态码，其余按 500 记录日志
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGameNotFound), errors.Is(err, util.ErrAttemptNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrBadSignal),
		errors.Is(err, model.ErrInvalidLevel),
		errors.Is(err, model.ErrInvalidAttemptKey),
		errors.Is(err, model.ErrInvalidCounts),
		errors.Is(err, model.ErrInvalidTimeWindow),
		errors.Is(err, validator.ErrValidation):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrGameNotYetOpen),
		errors.Is(err, util.ErrGameClosed):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrAttemptLimitReached):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrLockTimeout):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
