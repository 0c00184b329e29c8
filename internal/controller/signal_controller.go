package controller

import (
	"io"
	"net/http"

	"gabigame_backend/internal/service"
	"gabigame_backend/internal/signal"
	"gabigame_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// maxSignalBody 信号体很短，超过即视为非法
const maxSignalBody = 1 << 10

type SignalController struct {
	AttemptService *service.AttemptService
}

func NewSignalController(attemptService *service.AttemptService) *SignalController {
	return &SignalController{AttemptService: attemptService}
}

// @Summary 游戏客户端上报关卡开始/完成
// @Description 请求体为 status=S&userid=U&gameid=G&world=W&level=L[&moves=M&failedattempts=F]
// @Tags 游戏
// @Accept plain
// @Produce json
// @Security BearerAuth
// @Param body body string true "信号"
// @Success 200 {object} util.Response{data=service.SignalResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/game/signal [post]
func (c *SignalController) Handle(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxSignalBody+1))
	if err != nil {
		util.BadRequest(ctx, "failed to read body")
		return
	}
	if len(body) > maxSignalBody {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "signal too large")
		return
	}

	sig, err := signal.Parse(string(body))
	if err != nil {
		respondError(ctx, err)
		return
	}

	canManage := user.Role.CanManage()
	if sig.UserID != user.UserID && !canManage {
		respondError(ctx, util.ErrPermissionDenied)
		return
	}

	result, err := c.AttemptService.HandleSignal(ctx.Request.Context(), sig, canManage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
