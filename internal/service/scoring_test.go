package service

import (
	"testing"

	"gabigame_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func scored(world, level int, scores ...float64) []model.Attempt {
	attempts := make([]model.Attempt, 0, len(scores))
	for i, s := range scores {
		attempts = append(attempts, model.Attempt{WorldID: world, LevelID: level, Attempt: i + 1, Score: s, TimeFinish: 1})
	}
	return attempts
}

func TestLevelScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		moves  int
		failed int
		want   float64
	}{
		{name: "no failures", moves: 0, failed: 0, want: 1},
		{name: "no failures many moves", moves: 100000, failed: 0, want: 1},
		{name: "eleven failures", moves: 3, failed: 11, want: 0.01},
		{name: "many failures", moves: 3000, failed: 50, want: 0.01},
		{name: "five failures hundred moves", moves: 100, failed: 5, want: 0.545},
		{name: "one failure zero moves", moves: 0, failed: 1, want: 0.99},
		{name: "ten failures", moves: 0, failed: 10, want: 0.09},
		{name: "rounded to six places", moves: 40, failed: 2, want: 0.864286},
		// 不截断：十次失败且步数极大时得分接近 0
		{name: "ten failures huge moves", moves: 1000000, failed: 10, want: 0.000009},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LevelScore(model.FinishResult{Moves: tt.moves, FailedAttempts: tt.failed})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelScore_ContinuousInMoves(t *testing.T) {
	t.Parallel()

	prev := LevelScore(model.FinishResult{Moves: 0, FailedAttempts: 3})
	for moves := 10; moves <= 1000; moves += 10 {
		cur := LevelScore(model.FinishResult{Moves: moves, FailedAttempts: 3})
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAggregateLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   model.GradeMethod
		attempts []model.Attempt
		want     float64
	}{
		{name: "highest", method: model.GradeHighest, attempts: scored(1, 1, 0.3, 0.9, 0.5), want: 0.9},
		{name: "misconfigured falls back to highest", method: 0, attempts: scored(1, 1, 0.3, 0.9, 0.5), want: 0.9},
		{name: "unknown falls back to highest", method: 7, attempts: scored(1, 1, 0.3, 0.9, 0.5), want: 0.9},
		{name: "average", method: model.GradeAverage, attempts: scored(1, 1, 0.2, 0.4), want: 0.30000000000000004},
		{name: "first", method: model.GradeFirst, attempts: scored(1, 1, 0.3, 0.9, 0.5), want: 0.3},
		{name: "last", method: model.GradeLast, attempts: scored(1, 1, 0.3, 0.9, 0.5), want: 0.5},
		{name: "empty", method: model.GradeAverage, attempts: nil, want: 0},
		{name: "highest never below zero", method: model.GradeHighest, attempts: scored(1, 1, -0.2), want: 0},
		{name: "open attempt counts as zero", method: model.GradeAverage, attempts: append(scored(1, 1, 1), model.Attempt{WorldID: 1, LevelID: 1, Attempt: 2}), want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, AggregateLevel(tt.method, tt.attempts))
		})
	}
}

func TestAggregateLevel_AverageSlot(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.3, AggregateLevel(model.GradeAverage, scored(2, 2, 0.2, 0.4)), 1e-9)
}

func TestCalculateBestScore(t *testing.T) {
	t.Parallel()

	t.Run("single level", func(t *testing.T) {
		t.Parallel()
		// 0.9 / 11
		got := CalculateBestScore(model.GradeHighest, scored(1, 1, 0.3, 0.9, 0.5))
		assert.Equal(t, 0.081818, got)
	})

	t.Run("levels without attempts contribute zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, CalculateBestScore(model.GradeHighest, nil))
	})

	t.Run("eleven displayed slots give full score", func(t *testing.T) {
		t.Parallel()
		var attempts []model.Attempt
		for _, code := range model.DisplaySlots {
			attempts = append(attempts, scored(code.World(), code.Level(), 1)...)
		}
		assert.Equal(t, 1.0, CalculateBestScore(model.GradeHighest, attempts))
	})

	// 已知问题：31-34 都参与求和但除数固定为 11，全部通关时总分超过 1
	t.Run("thirteen slots still divided by eleven", func(t *testing.T) {
		t.Parallel()
		var attempts []model.Attempt
		for _, code := range model.ScoringSlots {
			attempts = append(attempts, scored(code.World(), code.Level(), 1)...)
		}
		assert.Equal(t, 1.181818, CalculateBestScore(model.GradeHighest, attempts))
	})

	t.Run("attempts outside scoring slots ignored", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, CalculateBestScore(model.GradeHighest, scored(4, 2, 1)))
	})

	t.Run("method applied per level", func(t *testing.T) {
		t.Parallel()
		attempts := append(scored(1, 1, 0.2, 0.4), scored(3, 4, 0.6, 0.1)...)
		// last: 0.4 + 0.1 = 0.5 / 11
		assert.Equal(t, 0.045455, CalculateBestScore(model.GradeLast, attempts))
	})
}

func TestScoreToGrade(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ScoreToGrade(0, 100))
	assert.Equal(t, 55, ScoreToGrade(0.545, 100))
	assert.Equal(t, 8, ScoreToGrade(0.081818, 100))
	assert.Equal(t, 1, ScoreToGrade(0.5, 2))
	assert.Equal(t, 0, ScoreToGrade(0.9, 0))
	assert.Equal(t, 8.18, BestGrade(0.081818, 100))
	assert.Equal(t, 1.96, BestGrade(0.01955, 100))
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.545, roundTo(0.545, 6))
	assert.Equal(t, 1.01, roundTo(1.005, 2))
	assert.Equal(t, -1.0, roundTo(-0.5, 0))
}
