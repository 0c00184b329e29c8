// Package gradebook 将成绩推送到外部成绩册（LMS）
package gradebook

//go:generate mockgen -source=gradebook.go -destination=mock/gradebook_mock.go

import (
	"context"
	"fmt"
	"time"

	"gabigame_backend/internal/config"
	"gabigame_backend/internal/util"

	"go.uber.org/zap"
)

// GradeItem 成绩项参数
type GradeItem struct {
	Name      string `json:"itemname"`
	MaxGrade  int    `json:"grademax"`
	GradeType string `json:"gradetype"`
}

// GradeUpdate RawGrade 为 nil 表示只更新成绩项，Reset 表示清空该课程的成绩
type GradeUpdate struct {
	Component     string    `json:"component"`
	CourseID      uint      `json:"courseid"`
	GameID        uint      `json:"gameid"`
	UserID        uint      `json:"userid,omitempty"`
	RawGrade      *int      `json:"rawgrade,omitempty"`
	DateSubmitted int64     `json:"datesubmitted,omitempty"`
	Item          GradeItem `json:"item"`
	Reset         bool      `json:"reset,omitempty"`
}

type Sink interface {
	UpdateGrades(ctx context.Context, update GradeUpdate) error
	Close() error
}

// New 根据 gradebook.driver 构造 Sink
func New(cfg config.GradebookConfig, log *zap.Logger) (Sink, error) {
	switch cfg.Driver {
	case "", util.GradebookLog:
		return NewLogSink(log), nil
	case util.GradebookHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("gradebook.url is required for the http driver")
		}
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		return NewHTTPSink(cfg.URL, cfg.Token, timeout, log), nil
	case util.GradebookAMQP:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("gradebook.amqp_url is required for the amqp driver")
		}
		return DialAMQP(cfg.AMQPURL, cfg.Queue, log)
	default:
		return nil, fmt.Errorf("unsupported gradebook driver %q", cfg.Driver)
	}
}

type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) UpdateGrades(_ context.Context, update GradeUpdate) error {
	fields := []zap.Field{
		zap.String("component", update.Component),
		zap.Uint("course_id", update.CourseID),
		zap.Uint("game_id", update.GameID),
		zap.Uint("user_id", update.UserID),
		zap.String("item", update.Item.Name),
		zap.Int("grade_max", update.Item.MaxGrade),
		zap.Bool("reset", update.Reset),
	}
	if update.RawGrade != nil {
		fields = append(fields, zap.Int("raw_grade", *update.RawGrade))
	}
	s.log.Info("gradebook update", fields...)
	return nil
}

func (s *LogSink) Close() error { return nil }
