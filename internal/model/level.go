package model

import "fmt"

// LevelCode 关卡编码 world*10+level
type LevelCode int

// ScoreDivisor 计分时固定除以 11，与 ScoringSlots 的 13 个槽位并不一致，保持原有评分约定
const ScoreDivisor = 11

// ScoringSlots 参与总分累加的关卡
var ScoringSlots = []LevelCode{11, 12, 13, 14, 21, 22, 23, 24, 31, 32, 33, 34, 41}

// DisplaySlots 尝试列表页展示的关卡，第三世界只展示 31、32
var DisplaySlots = []LevelCode{11, 12, 13, 14, 21, 22, 23, 24, 31, 32, 41}

func NewLevelCode(world, level int) LevelCode {
	return LevelCode(world*10 + level)
}

func (c LevelCode) World() int {
	return int(c) / 10
}

func (c LevelCode) Level() int {
	return int(c) % 10
}

func (c LevelCode) String() string {
	return fmt.Sprintf("%d-%d", c.World(), c.Level())
}

// ValidLevel 世界 1-3 各有关卡 1-4，另加终关 4-1
func ValidLevel(world, level int) bool {
	if world >= 1 && world <= 3 {
		return level >= 1 && level <= 4
	}
	return world == 4 && level == 1
}
