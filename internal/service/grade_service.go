package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gabigame_backend/internal/gradebook"
	"gabigame_backend/internal/model"
	"gabigame_backend/internal/repository"
	"gabigame_backend/internal/util"
	"gabigame_backend/pkg/lock"
	"gabigame_backend/pkg/monitoring"
	"gabigame_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GradeService struct {
	GameRepo    *repository.GameRepository
	AttemptRepo *repository.AttemptRepository
	GradeRepo   *repository.GradeRepository
	Gradebook   gradebook.Sink
	Locker      lock.Locker
	log         *zap.Logger
	now         func() time.Time
}

func NewGradeService(
	gameRepo *repository.GameRepository,
	attemptRepo *repository.AttemptRepository,
	gradeRepo *repository.GradeRepository,
	sink gradebook.Sink,
	locker lock.Locker,
	log *zap.Logger,
) *GradeService {
	return &GradeService{
		GameRepo:    gameRepo,
		AttemptRepo: attemptRepo,
		GradeRepo:   gradeRepo,
		Gradebook:   sink,
		Locker:      locker,
		log:         log,
		now:         time.Now,
	}
}

// GradeResult 一次成绩汇总的结果
type GradeResult struct {
	GameID       uint    `json:"gameId"`
	UserID       uint    `json:"userId"`
	Score        float64 `json:"score"`
	RawGrade     int     `json:"rawGrade"`
	TimeModified int64   `json:"timeModified"`
}

// UserGrade 当前用户在活动中的成绩，Score/Grade 为 nil 表示还没有成绩
type UserGrade struct {
	GameID    uint     `json:"gameId"`
	UserID    uint     `json:"userId"`
	Score     *float64 `json:"score"`
	Grade     *float64 `json:"grade"`
	MaxGrade  int      `json:"maxGrade"`
	Completed bool     `json:"completed"`
}

type GradeListItem struct {
	UserID        uint    `json:"userId"`
	Score         float64 `json:"score"`
	RawGrade      int     `json:"rawGrade"`
	TimeModified  int64   `json:"timeModified"`
	DateSubmitted int64   `json:"dateSubmitted"`
}

func findGame(ctx context.Context, repo *repository.GameRepository, gameID uint) (*model.Game, error) {
	game, err := repo.FindByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	return game, nil
}

func (s *GradeService) loadGame(ctx context.Context, gameID uint) (*model.Game, error) {
	return findGame(ctx, s.GameRepo, gameID)
}

func (s *GradeService) bestScore(ctx context.Context, game *model.Game, userID uint) (float64, int, error) {
	attempts, err := s.AttemptRepo.ListByUser(ctx, game.ID, userID, repository.AttemptsAll)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list attempts: %w", err)
	}
	return CalculateBestScore(game.GradeMethod, attempts), len(attempts), nil
}

// BestScore 重新计算用户在活动中的归一化最佳得分
func (s *GradeService) BestScore(ctx context.Context, gameID, userID uint) (float64, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	score, _, err := s.bestScore(ctx, game, userID)
	return score, err
}

func gradeLockKey(gameID, userID uint) string {
	return fmt.Sprintf("gabigame:grade:%d:%d", gameID, userID)
}

// SaveBestScore 计算最佳得分，写入成绩表并推送成绩册
func (s *GradeService) SaveBestScore(ctx context.Context, gameID, userID uint) (*GradeResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "GradeService.SaveBestScore")
	defer span.End()
	span.SetAttributes(attribute.Int64("game.id", int64(gameID)), attribute.Int64("user.id", int64(userID)))

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, gradeLockKey(gameID, userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrLockTimeout, err)
	}
	defer unlock()

	score, n, err := s.bestScore(ctx, game, userID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, util.ErrAttemptNotFound
	}

	grade := &model.Grade{
		GameID:       gameID,
		UserID:       userID,
		Score:        score,
		TimeModified: s.now().Unix(),
	}
	if err := s.GradeRepo.Upsert(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	result := &GradeResult{
		GameID:       gameID,
		UserID:       userID,
		Score:        score,
		RawGrade:     ScoreToGrade(score, game.MaxGrade),
		TimeModified: grade.TimeModified,
	}
	span.SetAttributes(attribute.Float64("grade.score", score), attribute.Int("grade.raw", result.RawGrade))

	if err := s.push(ctx, game, userID, &result.RawGrade, grade.TimeModified); err != nil {
		return nil, err
	}
	return result, nil
}

func gradeItem(game *model.Game) gradebook.GradeItem {
	return gradebook.GradeItem{
		Name:      game.Name,
		MaxGrade:  game.MaxGrade,
		GradeType: game.GradeType(),
	}
}

func (s *GradeService) push(ctx context.Context, game *model.Game, userID uint, rawGrade *int, submitted int64) error {
	err := s.Gradebook.UpdateGrades(ctx, gradebook.GradeUpdate{
		Component:     util.GradebookComponent,
		CourseID:      game.CourseID,
		GameID:        game.ID,
		UserID:        userID,
		RawGrade:      rawGrade,
		DateSubmitted: submitted,
		Item:          gradeItem(game),
	})
	if err != nil {
		monitoring.GradebookPushes.WithLabelValues("error").Inc()
		s.log.Error("gradebook update failed",
			zap.Uint("game_id", game.ID),
			zap.Uint("user_id", userID),
			zap.Error(err))
		return fmt.Errorf("failed to update gradebook: %w", err)
	}
	monitoring.GradebookPushes.WithLabelValues("ok").Inc()
	return nil
}

// GetBestScore 读取已保存的成绩，没有记录时返回 nil
func (s *GradeService) GetBestScore(ctx context.Context, gameID, userID uint) (*float64, error) {
	grade, err := s.GradeRepo.Find(ctx, gameID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load grade: %w", err)
	}
	return &grade.Score, nil
}

// GetBestGrade 保存的得分乘以满分，保留两位小数
func (s *GradeService) GetBestGrade(ctx context.Context, gameID, userID uint) (*float64, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	score, err := s.GetBestScore(ctx, gameID, userID)
	if err != nil || score == nil {
		return nil, err
	}
	grade := BestGrade(*score, game.MaxGrade)
	return &grade, nil
}

// CompletionState 未设置完成分数线时返回 fallback
func (s *GradeService) CompletionState(ctx context.Context, gameID, userID uint, fallback bool) (bool, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	return s.completion(ctx, game, userID, fallback)
}

func (s *GradeService) completion(ctx context.Context, game *model.Game, userID uint, fallback bool) (bool, error) {
	if game.CompletionScore <= 0 {
		return fallback, nil
	}
	n, err := s.GradeRepo.CountAtLeast(ctx, game.ID, userID, game.CompletionScore)
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return n > 0, nil
}

func (s *GradeService) GetUserGrade(ctx context.Context, gameID, userID uint) (*UserGrade, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	result := &UserGrade{GameID: gameID, UserID: userID, MaxGrade: game.MaxGrade}

	score, err := s.GetBestScore(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if score != nil {
		grade := BestGrade(*score, game.MaxGrade)
		result.Score = score
		result.Grade = &grade
	}

	if result.Completed, err = s.completion(ctx, game, userID, false); err != nil {
		return nil, err
	}
	return result, nil
}

// ListGrades 教师查看活动下全部学生成绩
func (s *GradeService) ListGrades(ctx context.Context, gameID uint, page, limit int) ([]GradeListItem, int64, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, 0, err
	}

	grades, total, err := s.GradeRepo.ListByGame(ctx, gameID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list grades: %w", err)
	}
	submitted, err := s.AttemptRepo.LastFinishByGame(ctx, gameID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load submission times: %w", err)
	}

	items := make([]GradeListItem, 0, len(grades))
	for _, g := range grades {
		items = append(items, GradeListItem{
			UserID:        g.UserID,
			Score:         g.Score,
			RawGrade:      ScoreToGrade(g.Score, game.MaxGrade),
			TimeModified:  g.TimeModified,
			DateSubmitted: submitted[g.UserID],
		})
	}
	return items, total, nil
}

// ResetCourse 清空课程下所有活动的成绩，并通知成绩册重置
func (s *GradeService) ResetCourse(ctx context.Context, courseID uint) (int64, error) {
	games, err := s.GameRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to list games: %w", err)
	}

	deleted, err := s.GradeRepo.DeleteByCourse(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete grades: %w", err)
	}

	for i := range games {
		game := &games[i]
		err := s.Gradebook.UpdateGrades(ctx, gradebook.GradeUpdate{
			Component: util.GradebookComponent,
			CourseID:  courseID,
			GameID:    game.ID,
			Item:      gradeItem(game),
			Reset:     true,
		})
		if err != nil {
			monitoring.GradebookPushes.WithLabelValues("error").Inc()
			return deleted, fmt.Errorf("failed to reset gradebook for game %d: %w", game.ID, err)
		}
		monitoring.GradebookPushes.WithLabelValues("ok").Inc()
	}

	s.log.Info("course grades reset", zap.Uint("course_id", courseID), zap.Int64("deleted", deleted))
	return deleted, nil
}

// UpdateGradeItem 活动设置变更后同步成绩项
func (s *GradeService) UpdateGradeItem(ctx context.Context, game *model.Game) error {
	return s.push(ctx, game, 0, nil, 0)
}
