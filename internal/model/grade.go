package model

// swagger:model Grade
type Grade struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID       uint    `gorm:"uniqueIndex:idx_grade_game_user,priority:1;not null" json:"gameId"`
	UserID       uint    `gorm:"uniqueIndex:idx_grade_game_user,priority:2;not null" json:"userId"`
	Score        float64 `gorm:"default:0" json:"score"`
	TimeModified int64   `gorm:"not null" json:"timeModified"`
}

func (Grade) TableName() string {
	return "gabigame_grades"
}
