package model

import (
	"fmt"
	"time"
)

// AttemptKey 唯一确定一条尝试序列 (game, user, world, level)
type AttemptKey struct {
	GameID uint
	UserID uint
	World  int
	Level  int
}

func NewAttemptKey(gameID, userID uint, world, level int) (AttemptKey, error) {
	if gameID == 0 || userID == 0 {
		return AttemptKey{}, fmt.Errorf("%w: gameid=%d userid=%d", ErrInvalidAttemptKey, gameID, userID)
	}
	if !ValidLevel(world, level) {
		return AttemptKey{}, fmt.Errorf("%w: world=%d level=%d", ErrInvalidLevel, world, level)
	}
	return AttemptKey{GameID: gameID, UserID: userID, World: world, Level: level}, nil
}

func (k AttemptKey) Code() LevelCode {
	return NewLevelCode(k.World, k.Level)
}

// LockKey 用于分布式锁
func (k AttemptKey) LockKey() string {
	return fmt.Sprintf("gabigame:attempt:%d:%d:%d:%d", k.GameID, k.UserID, k.World, k.Level)
}

// FinishResult 游戏端上报的通关数据
type FinishResult struct {
	Moves          int
	FailedAttempts int
}

func NewFinishResult(moves, failedAttempts int) (FinishResult, error) {
	if moves < 0 || failedAttempts < 0 {
		return FinishResult{}, fmt.Errorf("%w: moves=%d failedattempts=%d", ErrInvalidCounts, moves, failedAttempts)
	}
	return FinishResult{Moves: moves, FailedAttempts: failedAttempts}, nil
}

// swagger:model Attempt
type Attempt struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID         uint    `gorm:"index:idx_attempt_key,priority:1;not null" json:"gameId"`
	UserID         uint    `gorm:"index:idx_attempt_key,priority:2;not null" json:"userId"`
	WorldID        int     `gorm:"index:idx_attempt_key,priority:3;not null" json:"worldId"`
	LevelID        int     `gorm:"index:idx_attempt_key,priority:4;not null" json:"levelId"`
	Attempt        int     `gorm:"not null" json:"attempt"`
	TimeStart      int64   `gorm:"not null" json:"timeStart"`
	TimeFinish     int64   `gorm:"default:0;index" json:"timeFinish"`
	Moves          int     `gorm:"default:0" json:"moves"`
	FailedAttempts int     `gorm:"default:0" json:"failedAttempts"`
	Score          float64 `gorm:"default:0" json:"score"`
}

func (Attempt) TableName() string {
	return "gabigame_attempts"
}

func (a *Attempt) Code() LevelCode {
	return NewLevelCode(a.WorldID, a.LevelID)
}

func (a *Attempt) IsOpen() bool {
	return a.TimeFinish == 0
}

// Duration 未完成的尝试按当前时间计算
func (a *Attempt) Duration(now time.Time) time.Duration {
	end := a.TimeFinish
	if end == 0 {
		end = now.Unix()
	}
	return time.Duration(end-a.TimeStart) * time.Second
}
