package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gabigame_backend/internal/model"
	"gabigame_backend/internal/repository"
	"gabigame_backend/internal/signal"
	"gabigame_backend/internal/util"
	"gabigame_backend/pkg/lock"
	"gabigame_backend/pkg/monitoring"
	"gabigame_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttemptService struct {
	DB          *gorm.DB
	GameRepo    *repository.GameRepository
	AttemptRepo *repository.AttemptRepository
	Grades      *GradeService
	Locker      lock.Locker
	log         *zap.Logger
	now         func() time.Time
}

func NewAttemptService(
	db *gorm.DB,
	gameRepo *repository.GameRepository,
	attemptRepo *repository.AttemptRepository,
	grades *GradeService,
	locker lock.Locker,
	log *zap.Logger,
) *AttemptService {
	return &AttemptService{
		DB:          db,
		GameRepo:    gameRepo,
		AttemptRepo: attemptRepo,
		Grades:      grades,
		Locker:      locker,
		log:         log,
		now:         time.Now,
	}
}

// FinishOutcome Grade 为 nil 表示没有打开的尝试，本次完成信号被忽略
type FinishOutcome struct {
	Attempt *model.Attempt `json:"attempt,omitempty"`
	Grade   *GradeResult   `json:"grade,omitempty"`
}

// SignalResult 处理一次客户端信号的结果
type SignalResult struct {
	Status  signal.Status  `json:"status"`
	Ignored bool           `json:"ignored"`
	Created bool           `json:"created,omitempty"`
	Attempt *model.Attempt `json:"attempt,omitempty"`
	Grade   *GradeResult   `json:"grade,omitempty"`
}

func keyAttributes(key model.AttemptKey) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("game.id", int64(key.GameID)),
		attribute.Int64("user.id", int64(key.UserID)),
		attribute.String("level.code", key.Code().String()),
	}
}

func (s *AttemptService) lock(ctx context.Context, key model.AttemptKey) (func(), error) {
	unlock, err := s.Locker.Lock(ctx, key.LockKey())
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, fmt.Errorf("%w: %s", util.ErrLockTimeout, key.LockKey())
		}
		return nil, err
	}
	return unlock, nil
}

// StartAttempt 打开一次新的尝试。已有未完成尝试时直接返回它，created 为 false
func (s *AttemptService) StartAttempt(ctx context.Context, key model.AttemptKey, canManage bool) (*model.Attempt, bool, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.StartAttempt", trace.WithAttributes(keyAttributes(key)...))
	defer span.End()

	game, err := findGame(ctx, s.GameRepo, key.GameID)
	if err != nil {
		return nil, false, err
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var (
		attempt *model.Attempt
		created bool
	)
	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempts := s.AttemptRepo.WithTx(tx)

		open, err := attempts.FindOpen(ctx, key)
		if err == nil {
			attempt = open
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up open attempt: %w", err)
		}

		if !canManage {
			switch game.Availability(now) {
			case -1:
				return util.ErrGameNotYetOpen
			case 1:
				return util.ErrGameClosed
			}
		}

		if game.MaxAttempts > 0 {
			count, err := attempts.CountByUser(ctx, key.GameID, key.UserID)
			if err != nil {
				return fmt.Errorf("failed to count attempts: %w", err)
			}
			if count >= int64(game.MaxAttempts) {
				return util.ErrAttemptLimitReached
			}
		}

		seq, err := attempts.MaxSequence(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read attempt sequence: %w", err)
		}

		attempt = &model.Attempt{
			GameID:    key.GameID,
			UserID:    key.UserID,
			WorldID:   key.World,
			LevelID:   key.Level,
			Attempt:   seq + 1,
			TimeStart: now.Unix(),
		}
		if err := attempts.Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		monitoring.AttemptsStarted.Inc()
		s.log.Debug("attempt started",
			zap.Uint("game_id", key.GameID),
			zap.Uint("user_id", key.UserID),
			zap.String("level", key.Code().String()),
			zap.Int("attempt", attempt.Attempt))
	}
	return attempt, created, nil
}

// FinishAttempt 关闭未完成的尝试并重新汇总成绩。没有未完成尝试时不做任何事
func (s *AttemptService) FinishAttempt(ctx context.Context, key model.AttemptKey, result model.FinishResult) (*FinishOutcome, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.FinishAttempt", trace.WithAttributes(keyAttributes(key)...))
	defer span.End()

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	attempt, err := s.AttemptRepo.FindOpen(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info("finish signal without open attempt",
				zap.Uint("game_id", key.GameID),
				zap.Uint("user_id", key.UserID),
				zap.String("level", key.Code().String()))
			return &FinishOutcome{}, nil
		}
		return nil, fmt.Errorf("failed to look up open attempt: %w", err)
	}

	attempt.TimeFinish = s.now().Unix()
	attempt.Moves = result.Moves
	attempt.FailedAttempts = result.FailedAttempts
	attempt.Score = LevelScore(result)

	closed, err := s.AttemptRepo.Close(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("failed to close attempt: %w", err)
	}
	if !closed {
		return &FinishOutcome{}, nil
	}
	monitoring.AttemptsFinished.Inc()
	monitoring.LevelScore.Observe(attempt.Score)
	span.SetAttributes(attribute.Float64("attempt.score", attempt.Score))

	grade, err := s.Grades.SaveBestScore(ctx, key.GameID, key.UserID)
	if err != nil {
		return nil, err
	}
	return &FinishOutcome{Attempt: attempt, Grade: grade}, nil
}

// HandleSignal 处理游戏端上报的开始或完成信号
func (s *AttemptService) HandleSignal(ctx context.Context, sig signal.Signal, canManage bool) (*SignalResult, error) {
	res := &SignalResult{Status: sig.Status}
	if sig.Ignored() {
		res.Ignored = true
		return res, nil
	}

	key, err := model.NewAttemptKey(sig.GameID, sig.UserID, sig.World, sig.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBadSignal, err)
	}

	switch sig.Status {
	case signal.StatusStart:
		res.Attempt, res.Created, err = s.StartAttempt(ctx, key, canManage)
		if err != nil {
			return nil, err
		}
	case signal.StatusFinish:
		result, err := model.NewFinishResult(sig.Moves, sig.FailedAttempts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrBadSignal, err)
		}
		outcome, err := s.FinishAttempt(ctx, key, result)
		if err != nil {
			return nil, err
		}
		res.Attempt = outcome.Attempt
		res.Grade = outcome.Grade
	}
	return res, nil
}

// AttemptRow 尝试列表中的一行
type AttemptRow struct {
	Attempt       int    `json:"attempt"`
	TimeCompleted string `json:"timeCompleted"`
	Grade         int    `json:"grade"`
	TimeTaken     int64  `json:"timeTakenSeconds"`
	Finished      bool   `json:"finished"`
	Best          bool   `json:"best"`
}

type LevelSummary struct {
	World    int          `json:"world"`
	Level    int          `json:"level"`
	Attempts []AttemptRow `json:"attempts"`
}

type AttemptSummary struct {
	GameID       uint           `json:"gameId"`
	UserID       uint           `json:"userId"`
	GradeMethod  string         `json:"gradeMethod"`
	MaxGrade     int            `json:"maxGrade"`
	MaxAttempts  int            `json:"maxAttempts"`
	NumAttempts  int            `json:"numAttempts"`
	Unfinished   bool           `json:"unfinished"`
	CanAttempt   bool           `json:"canAttempt"`
	OverallGrade *float64       `json:"overallGrade"`
	Levels       []LevelSummary `json:"levels"`
}

// AttemptSummary 按关卡列出用户的尝试，只包含有尝试的关卡
func (s *AttemptService) AttemptSummary(ctx context.Context, gameID, userID uint) (*AttemptSummary, error) {
	game, err := findGame(ctx, s.GameRepo, gameID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByUser(ctx, gameID, userID, repository.AttemptsAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	myGrade, err := s.Grades.GetBestGrade(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &AttemptSummary{
		GameID:       gameID,
		UserID:       userID,
		GradeMethod:  game.GradeMethod.String(),
		MaxGrade:     game.MaxGrade,
		MaxAttempts:  game.MaxAttempts,
		OverallGrade: myGrade,
		Levels:       []LevelSummary{},
	}
	for i := range attempts {
		if attempts[i].IsOpen() {
			summary.Unfinished = true
		} else {
			summary.NumAttempts++
		}
	}
	summary.CanAttempt = game.Availability(now) == 0 &&
		(game.MaxAttempts == 0 || len(attempts) < game.MaxAttempts)

	levels := GroupByLevel(attempts)
	for _, code := range model.DisplaySlots {
		rows := levels[code]
		if len(rows) == 0 {
			continue
		}
		level := LevelSummary{World: code.World(), Level: code.Level()}
		for i := range rows {
			a := &rows[i]
			row := AttemptRow{
				Attempt:   a.Attempt,
				Grade:     ScoreToGrade(a.Score, game.MaxGrade),
				TimeTaken: int64(a.Duration(now) / time.Second),
				Finished:  !a.IsOpen(),
			}
			if !a.IsOpen() {
				row.TimeCompleted = util.FormatUnix(a.TimeFinish)
			}
			row.Best = len(rows) > 1 && myGrade != nil && float64(row.Grade) == *myGrade
			level.Attempts = append(level.Attempts, row)
		}
		summary.Levels = append(summary.Levels, level)
	}
	return summary, nil
}
