package repository

import (
	"context"
	"gabigame_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) WithTx(tx *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: tx}
}

// Upsert 依赖 (game_id, user_id) 唯一索引，单条语句完成插入或更新
func (r *GradeRepository) Upsert(ctx context.Context, grade *model.Grade) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "time_modified"}),
	}).Create(grade).Error
}

func (r *GradeRepository) Find(ctx context.Context, gameID, userID uint) (*model.Grade, error) {
	var g model.Grade
	if err := r.DB.WithContext(ctx).Where("game_id = ? AND user_id = ?", gameID, userID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GradeRepository) ListByGame(ctx context.Context, gameID uint, page, limit int) ([]model.Grade, int64, error) {
	var (
		grades []model.Grade
		total  int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Grade{}).Where("game_id = ?", gameID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	err := q.Order("user_id ASC").Offset((page - 1) * limit).Limit(limit).Find(&grades).Error
	return grades, total, err
}

func (r *GradeRepository) CountAtLeast(ctx context.Context, gameID, userID uint, minScore float64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Grade{}).
		Where("game_id = ? AND user_id = ? AND score >= ?", gameID, userID, minScore).
		Count(&count).Error
	return count, err
}

// DeleteByCourse 课程重置时删除该课程下全部活动的成绩
func (r *GradeRepository) DeleteByCourse(ctx context.Context, courseID uint) (int64, error) {
	sub := r.DB.Model(&model.Game{}).Select("id").Where("course_id = ?", courseID)
	res := r.DB.WithContext(ctx).Where("game_id IN (?)", sub).Delete(&model.Grade{})
	return res.RowsAffected, res.Error
}
