package service

import (
	"math"
	"strconv"

	"gabigame_backend/internal/model"
)

// roundTo 四舍五入（远离零），先按 15 位有效数字修正二进制误差，
// 与成绩册端的取整结果保持一致
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	x := v * p
	if pre, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', 15, 64), 64); err == nil {
		x = pre
	}
	return math.Round(x) / p
}

// LevelScore 单关得分。失败次数在 1..10 时不做 [0,1] 截断，步数很大时可能为负
func LevelScore(r model.FinishResult) float64 {
	switch {
	case r.FailedAttempts == 0:
		return 1
	case r.FailedAttempts > 10:
		return 0.01
	}
	movesValue := 9 / (1 + float64(r.Moves)/100)
	return roundTo((100+movesValue-10*float64(r.FailedAttempts))/100, 6)
}

// AggregateLevel 按评分方式汇总同一关卡的多次尝试，attempts 需按尝试序号升序
func AggregateLevel(method model.GradeMethod, attempts []model.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}

	switch method.Normalize() {
	case model.GradeAverage:
		var sum float64
		for _, a := range attempts {
			sum += a.Score
		}
		return sum / float64(len(attempts))
	case model.GradeFirst:
		return attempts[0].Score
	case model.GradeLast:
		return attempts[len(attempts)-1].Score
	default:
		max := 0.0
		for _, a := range attempts {
			if a.Score > max {
				max = a.Score
			}
		}
		return max
	}
}

// GroupByLevel 保持原有顺序按关卡编码分组
func GroupByLevel(attempts []model.Attempt) map[model.LevelCode][]model.Attempt {
	levels := make(map[model.LevelCode][]model.Attempt)
	for _, a := range attempts {
		levels[a.Code()] = append(levels[a.Code()], a)
	}
	return levels
}

// CalculateBestScore 13 个计分槽位求和后固定除以 11
func CalculateBestScore(method model.GradeMethod, attempts []model.Attempt) float64 {
	levels := GroupByLevel(attempts)

	var total float64
	for _, code := range model.ScoringSlots {
		total += AggregateLevel(method, levels[code])
	}
	return roundTo(total/model.ScoreDivisor, 6)
}

// ScoreToGrade 归一化得分换算为成绩册分数
func ScoreToGrade(score float64, maxGrade int) int {
	if score == 0 {
		return 0
	}
	return int(roundTo(score*float64(maxGrade), 0))
}

// BestGrade 页面展示用，保留两位小数
func BestGrade(score float64, maxGrade int) float64 {
	return roundTo(score*float64(maxGrade), 2)
}
