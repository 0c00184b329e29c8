package service

import (
	"context"
	"fmt"
	"net/url"

	"gabigame_backend/internal/model"
	"gabigame_backend/internal/repository"

	"go.uber.org/zap"
)

type GameService struct {
	GameRepo  *repository.GameRepository
	Grades    *GradeService
	ClientURL string
	log       *zap.Logger
}

func NewGameService(gameRepo *repository.GameRepository, grades *GradeService, clientURL string, log *zap.Logger) *GameService {
	return &GameService{
		GameRepo:  gameRepo,
		Grades:    grades,
		ClientURL: clientURL,
		log:       log,
	}
}

type GameRequest struct {
	CourseID        uint              `json:"courseId" binding:"required"`
	Name            string            `json:"name" binding:"required"`
	Intro           string            `json:"intro"`
	MaxGrade        int               `json:"grade"`
	GradeMethod     model.GradeMethod `json:"gradeMethod"`
	MaxAttempts     int               `json:"maxAttempts"`
	TimeOpen        int64             `json:"timeOpen"`
	TimeClose       int64             `json:"timeClose"`
	CompletionScore float64           `json:"completionScore"`
}

func (r GameRequest) apply(g *model.Game) {
	g.CourseID = r.CourseID
	g.Name = r.Name
	g.Intro = r.Intro
	g.MaxGrade = r.MaxGrade
	g.GradeMethod = r.GradeMethod
	g.MaxAttempts = r.MaxAttempts
	g.TimeOpen = r.TimeOpen
	g.TimeClose = r.TimeClose
	g.CompletionScore = r.CompletionScore
}

// LaunchInfo 游戏客户端启动地址
type LaunchInfo struct {
	GameID uint   `json:"gameId"`
	URL    string `json:"url"`
}

func (s *GameService) Get(ctx context.Context, id uint) (*model.Game, error) {
	return findGame(ctx, s.GameRepo, id)
}

func (s *GameService) Create(ctx context.Context, req GameRequest) (*model.Game, error) {
	game := &model.Game{}
	req.apply(game)
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := s.GameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	if err := s.Grades.UpdateGradeItem(ctx, game); err != nil {
		s.log.Warn("grade item sync failed", zap.Uint("game_id", game.ID), zap.Error(err))
	}
	return game, nil
}

// Update 修改活动设置；评分方式或满分变化后已有成绩不会自动重算
func (s *GameService) Update(ctx context.Context, id uint, req GameRequest) (*model.Game, error) {
	game, err := findGame(ctx, s.GameRepo, id)
	if err != nil {
		return nil, err
	}
	req.apply(game)
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := s.GameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	if err := s.Grades.UpdateGradeItem(ctx, game); err != nil {
		s.log.Warn("grade item sync failed", zap.Uint("game_id", game.ID), zap.Error(err))
	}
	return game, nil
}

func (s *GameService) Delete(ctx context.Context, id uint) error {
	if _, err := findGame(ctx, s.GameRepo, id); err != nil {
		return err
	}
	if err := s.GameRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// LaunchURL 在客户端地址上附加 uid 与 ggid 参数
func (s *GameService) LaunchURL(ctx context.Context, gameID, userID uint) (*LaunchInfo, error) {
	game, err := findGame(ctx, s.GameRepo, gameID)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(s.ClientURL)
	if err != nil {
		return nil, fmt.Errorf("invalid game client url %q: %w", s.ClientURL, err)
	}
	q := u.Query()
	q.Set("uid", fmt.Sprint(userID))
	q.Set("ggid", fmt.Sprint(game.ID))
	u.RawQuery = q.Encode()
	return &LaunchInfo{GameID: game.ID, URL: u.String()}, nil
}
