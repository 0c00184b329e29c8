package controller

import (
	"strconv"

	"gabigame_backend/internal/service"
	"gabigame_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService *service.GradeService
}

func NewGradeController(gradeService *service.GradeService) *GradeController {
	return &GradeController{GradeService: gradeService}
}

// @Summary 活动下全部学生成绩
// @Tags 教师-成绩
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(50)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/games/{id}/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	items, total, err := c.GradeService.ListGrades(ctx.Request.Context(), id, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: items, Total: total, Page: page, Limit: limit})
}

// @Summary 重新计算并推送某学生的成绩
// @Tags 教师-成绩
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param userId path int true "学生ID"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 404 {object} util.Response
// @Router /api/teacher/games/{id}/users/{userId}/regrade [post]
func (c *GradeController) Regrade(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}
	result, err := c.GradeService.SaveBestScore(ctx.Request.Context(), id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 重置课程成绩
// @Tags 教师-成绩
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{courseId}/reset [post]
func (c *GradeController) ResetCourse(ctx *gin.Context) {
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}
	deleted, err := c.GradeService.ResetCourse(ctx.Request.Context(), courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID, "deleted": deleted})
}
