package repository

import (
	"context"
	"gabigame_backend/internal/model"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) WithTx(tx *gorm.DB) *GameRepository {
	return &GameRepository{DB: tx}
}

func (r *GameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.DB.WithContext(ctx).Create(game).Error
}

func (r *GameRepository) Update(ctx context.Context, game *model.Game) error {
	return r.DB.WithContext(ctx).Save(game).Error
}

func (r *GameRepository) FindByID(ctx context.Context, id uint) (*model.Game, error) {
	var g model.Game
	if err := r.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Game, error) {
	var games []model.Game
	err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).Order("id ASC").Find(&games).Error
	return games, err
}

// Delete 删除活动实例及其全部尝试和成绩
func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&model.Grade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Game{}, id).Error
	})
}
