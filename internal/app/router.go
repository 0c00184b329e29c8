package app

import (
	"gabigame_backend/docs"
	"gabigame_backend/internal/config"
	"gabigame_backend/internal/middleware"
	"gabigame_backend/internal/model"
	"gabigame_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerGameRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerGameRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/game/signal", c.signal.Handle)

	games := group.Group("/games")
	{
		games.GET("/:id", c.game.GetGame)
		games.GET("/:id/launch", c.game.Launch)
		games.GET("/:id/attempts", c.game.Attempts)
		games.GET("/:id/grade", c.game.Grade)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/games", c.game.CreateGame)
		teacher.PUT("/games/:id", c.game.UpdateGame)
		teacher.DELETE("/games/:id", c.game.DeleteGame)
		teacher.GET("/games/:id/grades", c.grade.ListGrades)
		teacher.POST("/games/:id/users/:userId/regrade", c.grade.Regrade)
		teacher.POST("/courses/:courseId/reset", c.grade.ResetCourse)
	}
}
