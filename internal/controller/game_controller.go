package controller

import (
	"gabigame_backend/internal/service"
	"gabigame_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService    *service.GameService
	AttemptService *service.AttemptService
	GradeService   *service.GradeService
}

func NewGameController(gameService *service.GameService, attemptService *service.AttemptService, gradeService *service.GradeService) *GameController {
	return &GameController{
		GameService:    gameService,
		AttemptService: attemptService,
		GradeService:   gradeService,
	}
}

// @Summary 获取游戏活动设置
// @Tags 游戏
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response{data=model.Game}
// @Failure 404 {object} util.Response
// @Router /api/games/{id} [get]
func (c *GameController) GetGame(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	game, err := c.GameService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// @Summary 获取游戏客户端启动地址
// @Tags 游戏
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response{data=service.LaunchInfo}
// @Router /api/games/{id}/launch [get]
func (c *GameController) Launch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	info, err := c.GameService.LaunchURL(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, info)
}

// @Summary 当前用户的尝试汇总
// @Tags 游戏
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response{data=service.AttemptSummary}
// @Router /api/games/{id}/attempts [get]
func (c *GameController) Attempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	summary, err := c.AttemptService.AttemptSummary(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 当前用户的成绩与完成状态
// @Tags 游戏
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response{data=service.UserGrade}
// @Router /api/games/{id}/grade [get]
func (c *GameController) Grade(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	grade, err := c.GradeService.GetUserGrade(ctx.Request.Context(), id, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grade)
}

// @Summary 创建游戏活动
// @Tags 教师-游戏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GameRequest true "活动设置"
// @Success 201 {object} util.Response{data=model.Game}
// @Router /api/teacher/games [post]
func (c *GameController) CreateGame(ctx *gin.Context) {
	var req service.GameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.GameService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, game)
}

// @Summary 修改游戏活动
// @Tags 教师-游戏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body service.GameRequest true "活动设置"
// @Success 200 {object} util.Response{data=model.Game}
// @Router /api/teacher/games/{id} [put]
func (c *GameController) UpdateGame(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req service.GameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.GameService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// @Summary 删除游戏活动及其尝试和成绩
// @Tags 教师-游戏
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/games/{id} [delete]
func (c *GameController) DeleteGame(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.GameService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
