package repository

import (
	"context"
	"gabigame_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptStatus 对应查询时的完成状态过滤
type AttemptStatus int

const (
	AttemptsAll AttemptStatus = iota
	AttemptsFinished
	AttemptsUnfinished
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) byKey(ctx context.Context, key model.AttemptKey) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("game_id = ? AND user_id = ? AND world_id = ? AND level_id = ?", key.GameID, key.UserID, key.World, key.Level)
}

// FindOpen 返回该关卡未完成 (time_finish = 0) 的尝试，没有时返回 gorm.ErrRecordNotFound
func (r *AttemptRepository) FindOpen(ctx context.Context, key model.AttemptKey) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.byKey(ctx, key).Where("time_finish = 0").Order("attempt ASC").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) MaxSequence(ctx context.Context, key model.AttemptKey) (int, error) {
	var max int
	err := r.byKey(ctx, key).Select("COALESCE(MAX(attempt), 0)").Scan(&max).Error
	return max, err
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

// Close 只更新仍处于打开状态的尝试，返回是否实际更新
func (r *AttemptRepository) Close(ctx context.Context, attempt *model.Attempt) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND time_finish = 0", attempt.ID).
		Updates(map[string]interface{}{
			"time_finish":     attempt.TimeFinish,
			"moves":           attempt.Moves,
			"failed_attempts": attempt.FailedAttempts,
			"score":           attempt.Score,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListByUser 按尝试序号升序返回
func (r *AttemptRepository) ListByUser(ctx context.Context, gameID, userID uint, status AttemptStatus) ([]model.Attempt, error) {
	q := r.DB.WithContext(ctx).Where("game_id = ? AND user_id = ?", gameID, userID)
	switch status {
	case AttemptsFinished:
		q = q.Where("time_finish > 0")
	case AttemptsUnfinished:
		q = q.Where("time_finish = 0")
	}

	var attempts []model.Attempt
	err := q.Order("attempt ASC").Order("id ASC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByUser(ctx context.Context, gameID, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).Where("game_id = ? AND user_id = ?", gameID, userID).Count(&count).Error
	return count, err
}

// LastFinishByGame 每个用户最近一次完成时间，成绩册 datesubmitted 使用
func (r *AttemptRepository) LastFinishByGame(ctx context.Context, gameID uint) (map[uint]int64, error) {
	var rows []struct {
		UserID     uint
		LastFinish int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Select("user_id, MAX(time_finish) AS last_finish").
		Where("game_id = ?", gameID).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]int64, len(rows))
	for _, row := range rows {
		result[row.UserID] = row.LastFinish
	}
	return result, nil
}

// UserIDs 在活动中有过尝试的全部用户
func (r *AttemptRepository) UserIDs(ctx context.Context, gameID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("game_id = ?", gameID).
		Distinct().
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
