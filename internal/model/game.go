package model

import (
	"time"

	"gabigame_backend/pkg/validator"
)

type GradeMethod int

const (
	GradeHighest GradeMethod = 1
	GradeAverage GradeMethod = 2
	GradeFirst   GradeMethod = 3
	GradeLast    GradeMethod = 4
)

// Normalize 未配置或非法值按最高分处理
func (m GradeMethod) Normalize() GradeMethod {
	switch m {
	case GradeAverage, GradeFirst, GradeLast:
		return m
	default:
		return GradeHighest
	}
}

func (m GradeMethod) String() string {
	switch m.Normalize() {
	case GradeAverage:
		return "average grade"
	case GradeFirst:
		return "first attempt"
	case GradeLast:
		return "last attempt"
	default:
		return "highest grade"
	}
}

// swagger:model Game
type Game struct {
	BaseModel

	CourseID        uint        `gorm:"index;not null" json:"courseId" validate:"required"`
	Name            string      `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Intro           string      `gorm:"type:text" json:"intro"`
	MaxGrade        int         `gorm:"column:grade;default:100" json:"grade" validate:"gte=0"`
	GradeMethod     GradeMethod `gorm:"default:1" json:"gradeMethod" validate:"gte=0,lte=4"`
	MaxAttempts     int         `gorm:"default:0" json:"maxAttempts" validate:"gte=0"`
	TimeOpen        int64       `gorm:"default:0" json:"timeOpen" validate:"gte=0"`
	TimeClose       int64       `gorm:"default:0" json:"timeClose" validate:"gte=0"`
	CompletionScore float64     `gorm:"default:0" json:"completionScore" validate:"gte=0,lte=1"`
}

func (Game) TableName() string {
	return "gabigame"
}

func (g *Game) Validate() error {
	if err := validator.ValidateStruct(g); err != nil {
		return err
	}
	if g.TimeOpen > 0 && g.TimeClose > 0 && g.TimeClose < g.TimeOpen {
		return ErrInvalidTimeWindow
	}
	return nil
}

// Availability 返回 0 表示开放，-1 未开放，1 已关闭
func (g *Game) Availability(now time.Time) int {
	ts := now.Unix()
	if ts < g.TimeOpen {
		return -1
	}
	if g.TimeClose > 0 && ts > g.TimeClose {
		return 1
	}
	return 0
}

// GradeType 对应成绩册 gradetype：有满分时为数值型，否则不计分
func (g *Game) GradeType() string {
	if g.MaxGrade > 0 {
		return "value"
	}
	return "none"
}
