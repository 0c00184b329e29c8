package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gabigame_backend/internal/gradebook"
	mock_gradebook "gabigame_backend/internal/gradebook/mock"
	"gabigame_backend/internal/model"
	"gabigame_backend/internal/repository"
	"gabigame_backend/internal/signal"
	"gabigame_backend/internal/util"
	"gabigame_backend/pkg/database"
	"gabigame_backend/pkg/lock"

	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	sink     *mock_gradebook.MockSink
	grades   *GradeService
	attempts *AttemptService
	games    *GameService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	ctrl := gomock.NewController(t)
	f := &fixture{
		db:   db,
		sink: mock_gradebook.NewMockSink(ctrl),
		now:  time.Unix(1_700_000_000, 0),
	}
	clock := func() time.Time { return f.now }

	locker := lock.NewMemoryLocker(2 * time.Second)
	gameRepo := repository.NewGameRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	log := zap.NewNop()

	f.grades = NewGradeService(gameRepo, attemptRepo, gradeRepo, f.sink, locker, log)
	f.grades.now = clock
	f.attempts = NewAttemptService(db, gameRepo, attemptRepo, f.grades, locker, log)
	f.attempts.now = clock
	f.games = NewGameService(gameRepo, f.grades, "https://games.example.com/gabi/index.html", log)
	return f
}

func (f *fixture) seedGame(t *testing.T, mutate func(g *model.Game)) *model.Game {
	t.Helper()
	g := &model.Game{CourseID: 7, Name: "Gabi", MaxGrade: 100, GradeMethod: model.GradeHighest}
	if mutate != nil {
		mutate(g)
	}
	require.NoError(t, f.games.GameRepo.Create(context.Background(), g))
	return g
}

func (f *fixture) seedAttempt(t *testing.T, gameID, userID uint, world, level, seq int, score float64, finished bool) {
	t.Helper()
	a := &model.Attempt{
		GameID: gameID, UserID: userID, WorldID: world, LevelID: level,
		Attempt: seq, TimeStart: f.now.Unix() - 120, Score: score,
	}
	if finished {
		a.TimeFinish = f.now.Unix() - 60
	}
	require.NoError(t, f.attempts.AttemptRepo.Create(context.Background(), a))
}

// expectPush 捕获推送到成绩册的内容
func (f *fixture) expectPush(got *[]gradebook.GradeUpdate) *gomock.Call {
	return f.sink.EXPECT().UpdateGrades(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u gradebook.GradeUpdate) error {
			*got = append(*got, u)
			return nil
		})
}

func mustKey(t *testing.T, gameID, userID uint, world, level int) model.AttemptKey {
	t.Helper()
	key, err := model.NewAttemptKey(gameID, userID, world, level)
	require.NoError(t, err)
	return key
}

func TestAttemptService_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)
	key := mustKey(t, g.ID, 5, 1, 2)

	first, created, err := f.attempts.StartAttempt(ctx, key, false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, first.Attempt)
	assert.Equal(t, f.now.Unix(), first.TimeStart)
	assert.Zero(t, first.TimeFinish)
	assert.Zero(t, first.Score)

	f.now = f.now.Add(time.Minute)
	again, created, err := f.attempts.StartAttempt(ctx, key, false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.TimeStart, again.TimeStart)

	n, err := f.attempts.AttemptRepo.CountByUser(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAttemptService_ConcurrentStarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)
	key := mustKey(t, g.ID, 5, 3, 3)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := f.attempts.StartAttempt(ctx, key, false)
			if !assert.NoError(t, err) {
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	open, err := f.attempts.AttemptRepo.ListByUser(ctx, g.ID, 5, repository.AttemptsUnfinished)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestAttemptService_FinishScoresAndGrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)
	key := mustKey(t, g.ID, 5, 1, 1)

	_, _, err := f.attempts.StartAttempt(ctx, key, false)
	require.NoError(t, err)

	var pushed []gradebook.GradeUpdate
	f.expectPush(&pushed)

	f.now = f.now.Add(90 * time.Second)
	outcome, err := f.attempts.FinishAttempt(ctx, key, model.FinishResult{Moves: 100, FailedAttempts: 5})
	require.NoError(t, err)
	require.NotNil(t, outcome.Attempt)
	require.NotNil(t, outcome.Grade)

	assert.Equal(t, 0.545, outcome.Attempt.Score)
	assert.Equal(t, f.now.Unix(), outcome.Attempt.TimeFinish)
	assert.Equal(t, 0.049545, outcome.Grade.Score)
	assert.Equal(t, 5, outcome.Grade.RawGrade)

	require.Len(t, pushed, 1)
	assert.Equal(t, "game", pushed[0].Component)
	assert.Equal(t, uint(7), pushed[0].CourseID)
	assert.Equal(t, uint(5), pushed[0].UserID)
	require.NotNil(t, pushed[0].RawGrade)
	assert.Equal(t, 5, *pushed[0].RawGrade)
	assert.Equal(t, gradebook.GradeItem{Name: "Gabi", MaxGrade: 100, GradeType: "value"}, pushed[0].Item)

	score, err := f.grades.GetBestScore(ctx, g.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.Equal(t, 0.049545, *score)

	// 已关闭的尝试之后可以开始新的尝试，序号递增
	next, created, err := f.attempts.StartAttempt(ctx, key, false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, next.Attempt)
}

func TestAttemptService_FinishWithoutOpenAttempt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)
	f.seedAttempt(t, g.ID, 5, 2, 2, 1, 0.9, true)

	// 成绩册不应收到任何调用
	outcome, err := f.attempts.FinishAttempt(ctx, mustKey(t, g.ID, 5, 2, 2), model.FinishResult{Moves: 3})
	require.NoError(t, err)
	assert.Nil(t, outcome.Attempt)
	assert.Nil(t, outcome.Grade)

	score, err := f.grades.GetBestScore(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.Nil(t, score)
}

func TestAttemptService_StartChecks(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0).Unix()
	tests := []struct {
		name      string
		game      func(g *model.Game)
		prior     int
		canManage bool
		wantErr   error
	}{
		{name: "not yet open", game: func(g *model.Game) { g.TimeOpen = now + 3600 }, wantErr: util.ErrGameNotYetOpen},
		{name: "closed", game: func(g *model.Game) { g.TimeClose = now - 1 }, wantErr: util.ErrGameClosed},
		{name: "manager bypasses window", game: func(g *model.Game) { g.TimeClose = now - 1 }, canManage: true},
		{name: "open window", game: func(g *model.Game) { g.TimeOpen = now - 10; g.TimeClose = now + 10 }},
		{name: "limit reached", game: func(g *model.Game) { g.MaxAttempts = 2 }, prior: 2, wantErr: util.ErrAttemptLimitReached},
		{name: "under limit", game: func(g *model.Game) { g.MaxAttempts = 3 }, prior: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			g := f.seedGame(t, tt.game)
			for i := 0; i < tt.prior; i++ {
				f.seedAttempt(t, g.ID, 5, 1, i+1, 1, 1, true)
			}

			_, created, err := f.attempts.StartAttempt(context.Background(), mustKey(t, g.ID, 5, 2, 1), tt.canManage)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, created)
		})
	}
}

func TestAttemptService_RestartAtLimitReturnsOpenAttempt(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := f.seedGame(t, func(g *model.Game) { g.MaxAttempts = 1 })
	key := mustKey(t, g.ID, 5, 1, 1)

	first, _, err := f.attempts.StartAttempt(context.Background(), key, false)
	require.NoError(t, err)
	again, created, err := f.attempts.StartAttempt(context.Background(), key, false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestAttemptService_StartUnknownGame(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, _, err := f.attempts.StartAttempt(context.Background(), mustKey(t, 99, 5, 1, 1), false)
	require.ErrorIs(t, err, util.ErrGameNotFound)
}

func TestAttemptService_HandleSignal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)

	res, err := f.attempts.HandleSignal(ctx, signal.Signal{Status: 9, UserID: 5, GameID: g.ID, World: 1, Level: 1}, false)
	require.NoError(t, err)
	assert.True(t, res.Ignored)

	_, err = f.attempts.HandleSignal(ctx, signal.Signal{Status: signal.StatusStart, UserID: 5, GameID: g.ID, World: 5, Level: 1}, false)
	require.ErrorIs(t, err, util.ErrBadSignal)

	res, err = f.attempts.HandleSignal(ctx, signal.Signal{Status: signal.StatusStart, UserID: 5, GameID: g.ID, World: 4, Level: 1}, false)
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.NotNil(t, res.Attempt)

	_, err = f.attempts.HandleSignal(ctx, signal.Signal{Status: signal.StatusFinish, UserID: 5, GameID: g.ID, World: 4, Level: 1, Moves: -1}, false)
	require.ErrorIs(t, err, util.ErrBadSignal)

	var pushed []gradebook.GradeUpdate
	f.expectPush(&pushed)
	res, err = f.attempts.HandleSignal(ctx, signal.Signal{Status: signal.StatusFinish, UserID: 5, GameID: g.ID, World: 4, Level: 1, Moves: 10}, false)
	require.NoError(t, err)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 1.0, res.Attempt.Score)
	assert.Equal(t, 0.090909, res.Grade.Score)
	assert.Equal(t, 9, res.Grade.RawGrade)
}

func TestGradeService_SaveBestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    model.GradeMethod
		maxGrade  int
		attempts  []model.Attempt
		wantScore float64
		wantRaw   int
	}{
		{
			name:     "highest per level",
			method:   model.GradeHighest,
			maxGrade: 100,
			attempts: []model.Attempt{
				{WorldID: 1, LevelID: 1, Attempt: 1, Score: 0.3},
				{WorldID: 1, LevelID: 1, Attempt: 2, Score: 0.9},
				{WorldID: 1, LevelID: 1, Attempt: 3, Score: 0.5},
				{WorldID: 4, LevelID: 1, Attempt: 1, Score: 1},
			},
			wantScore: 0.172727,
			wantRaw:   17,
		},
		{
			name:     "average",
			method:   model.GradeAverage,
			maxGrade: 100,
			attempts: []model.Attempt{
				{WorldID: 2, LevelID: 1, Attempt: 1, Score: 0.2},
				{WorldID: 2, LevelID: 1, Attempt: 2, Score: 0.4},
			},
			wantScore: 0.027273,
			wantRaw:   3,
		},
		{
			name:     "unset method falls back to highest",
			method:   0,
			maxGrade: 11,
			attempts: []model.Attempt{
				{WorldID: 1, LevelID: 2, Attempt: 1, Score: 0.5},
				{WorldID: 1, LevelID: 2, Attempt: 2, Score: 0.2},
			},
			wantScore: 0.045455,
			wantRaw:   1,
		},
		{
			name:      "thirteen slots divided by eleven",
			method:    model.GradeLast,
			maxGrade:  100,
			attempts:  allSlots(1),
			wantScore: 1.181818,
			wantRaw:   118,
		},
		{
			name:     "zero score pushes zero",
			method:   model.GradeFirst,
			maxGrade: 100,
			attempts: []model.Attempt{
				{WorldID: 3, LevelID: 4, Attempt: 1, Score: 0},
			},
			wantScore: 0,
			wantRaw:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			f := newFixture(t)
			g := f.seedGame(t, func(g *model.Game) {
				g.GradeMethod = tt.method
				g.MaxGrade = tt.maxGrade
			})
			for _, a := range tt.attempts {
				a.GameID, a.UserID, a.TimeStart, a.TimeFinish = g.ID, 5, 1, 2
				require.NoError(t, f.attempts.AttemptRepo.Create(ctx, &a))
			}

			var pushed []gradebook.GradeUpdate
			f.expectPush(&pushed)

			res, err := f.grades.SaveBestScore(ctx, g.ID, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantRaw, res.RawGrade)
			require.Len(t, pushed, 1)
			assert.Equal(t, tt.wantRaw, *pushed[0].RawGrade)

			stored, err := f.grades.GetBestScore(ctx, g.ID, 5)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.InDelta(t, tt.wantScore, *stored, 1e-6)
		})
	}
}

func allSlots(score float64) []model.Attempt {
	attempts := make([]model.Attempt, 0, len(model.ScoringSlots))
	for _, code := range model.ScoringSlots {
		attempts = append(attempts, model.Attempt{WorldID: code.World(), LevelID: code.Level(), Attempt: 1, Score: score})
	}
	return attempts
}

func TestGradeService_SaveBestScoreErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)

	_, err := f.grades.SaveBestScore(ctx, g.ID, 5)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = f.grades.SaveBestScore(ctx, 404, 5)
	require.ErrorIs(t, err, util.ErrGameNotFound)

	f.seedAttempt(t, g.ID, 5, 1, 1, 1, 1, true)
	f.sink.EXPECT().UpdateGrades(gomock.Any(), gomock.Any()).Return(errors.New("lms down"))
	_, err = f.grades.SaveBestScore(ctx, g.ID, 5)
	require.Error(t, err)

	// 推送失败前成绩已写入
	score, err := f.grades.GetBestScore(ctx, g.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.Equal(t, 0.090909, *score)
}

func TestGradeService_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, nil)
	var pushed []gradebook.GradeUpdate
	f.expectPush(&pushed).Times(2)

	f.seedAttempt(t, g.ID, 5, 1, 1, 1, 0.5, true)
	_, err := f.grades.SaveBestScore(ctx, g.ID, 5)
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	f.seedAttempt(t, g.ID, 5, 1, 2, 1, 1, true)
	res, err := f.grades.SaveBestScore(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.136364, res.Score)

	list, total, err := f.grades.ListGrades(ctx, g.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, 0.136364, list[0].Score)
	assert.Equal(t, 14, list[0].RawGrade)
	assert.Equal(t, f.now.Unix(), list[0].TimeModified)
	assert.Equal(t, f.now.Unix()-60, list[0].DateSubmitted)
}

func TestGradeService_CompletionAndUserGrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	withRule := f.seedGame(t, func(g *model.Game) { g.CompletionScore = 0.5 })
	noRule := f.seedGame(t, nil)

	gradeRepo := f.grades.GradeRepo
	require.NoError(t, gradeRepo.Upsert(ctx, &model.Grade{GameID: withRule.ID, UserID: 5, Score: 0.6, TimeModified: 1}))
	require.NoError(t, gradeRepo.Upsert(ctx, &model.Grade{GameID: withRule.ID, UserID: 6, Score: 0.4, TimeModified: 1}))

	done, err := f.grades.CompletionState(ctx, withRule.ID, 5, false)
	require.NoError(t, err)
	assert.True(t, done)
	done, err = f.grades.CompletionState(ctx, withRule.ID, 6, true)
	require.NoError(t, err)
	assert.False(t, done)
	done, err = f.grades.CompletionState(ctx, noRule.ID, 5, true)
	require.NoError(t, err)
	assert.True(t, done)

	ug, err := f.grades.GetUserGrade(ctx, withRule.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, ug.Grade)
	assert.Equal(t, 60.0, *ug.Grade)
	assert.True(t, ug.Completed)

	ug, err = f.grades.GetUserGrade(ctx, noRule.ID, 5)
	require.NoError(t, err)
	assert.Nil(t, ug.Score)
	assert.Nil(t, ug.Grade)
}

func TestGradeService_ResetCourse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g1 := f.seedGame(t, nil)
	g2 := f.seedGame(t, nil)
	other := f.seedGame(t, func(g *model.Game) { g.CourseID = 8 })

	gradeRepo := f.grades.GradeRepo
	for _, id := range []uint{g1.ID, g2.ID, other.ID} {
		require.NoError(t, gradeRepo.Upsert(ctx, &model.Grade{GameID: id, UserID: 5, Score: 0.5, TimeModified: 1}))
	}

	var pushed []gradebook.GradeUpdate
	f.expectPush(&pushed).Times(2)

	deleted, err := f.grades.ResetCourse(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	require.Len(t, pushed, 2)
	for _, u := range pushed {
		assert.True(t, u.Reset)
		assert.Nil(t, u.RawGrade)
		assert.Equal(t, uint(7), u.CourseID)
	}

	score, err := f.grades.GetBestScore(ctx, other.ID, 5)
	require.NoError(t, err)
	assert.NotNil(t, score)
}

func TestAttemptService_AttemptSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t, func(g *model.Game) { g.MaxGrade = 11; g.GradeMethod = model.GradeAverage })

	f.seedAttempt(t, g.ID, 5, 1, 1, 1, 1, true)
	f.seedAttempt(t, g.ID, 5, 1, 1, 2, 0.5, true)
	f.seedAttempt(t, g.ID, 5, 3, 3, 1, 1, true)
	f.seedAttempt(t, g.ID, 5, 1, 2, 1, 0, false)
	require.NoError(t, f.grades.GradeRepo.Upsert(ctx, &model.Grade{GameID: g.ID, UserID: 5, Score: 1, TimeModified: 1}))

	summary, err := f.attempts.AttemptSummary(ctx, g.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, "average grade", summary.GradeMethod)
	assert.Equal(t, 3, summary.NumAttempts)
	assert.True(t, summary.Unfinished)
	assert.True(t, summary.CanAttempt)
	require.NotNil(t, summary.OverallGrade)
	assert.Equal(t, 11.0, *summary.OverallGrade)

	// 3-3 不在展示关卡中
	require.Len(t, summary.Levels, 2)
	l11 := summary.Levels[0]
	assert.Equal(t, 1, l11.World)
	assert.Equal(t, 1, l11.Level)
	require.Len(t, l11.Attempts, 2)
	assert.Equal(t, 11, l11.Attempts[0].Grade)
	assert.True(t, l11.Attempts[0].Best)
	assert.Equal(t, 6, l11.Attempts[1].Grade)
	assert.False(t, l11.Attempts[1].Best)
	assert.Equal(t, int64(60), l11.Attempts[0].TimeTaken)
	assert.NotEmpty(t, l11.Attempts[0].TimeCompleted)

	l12 := summary.Levels[1]
	assert.Equal(t, 2, l12.Level)
	require.Len(t, l12.Attempts, 1)
	assert.False(t, l12.Attempts[0].Finished)
	assert.False(t, l12.Attempts[0].Best)
	assert.Empty(t, l12.Attempts[0].TimeCompleted)
	assert.Equal(t, int64(120), l12.Attempts[0].TimeTaken)
}

func TestGameService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	var pushed []gradebook.GradeUpdate
	f.expectPush(&pushed).Times(2)

	g, err := f.games.Create(ctx, GameRequest{CourseID: 7, Name: "Gabi", MaxGrade: 50, GradeMethod: model.GradeLast})
	require.NoError(t, err)
	assert.NotZero(t, g.ID)
	require.Len(t, pushed, 1)
	assert.Nil(t, pushed[0].RawGrade)
	assert.Equal(t, 50, pushed[0].Item.MaxGrade)

	_, err = f.games.Create(ctx, GameRequest{CourseID: 7, Name: "Bad", TimeOpen: 200, TimeClose: 100})
	require.ErrorIs(t, err, model.ErrInvalidTimeWindow)

	updated, err := f.games.Update(ctx, g.ID, GameRequest{CourseID: 7, Name: "Gabi 2", MaxGrade: 0})
	require.NoError(t, err)
	assert.Equal(t, "Gabi 2", updated.Name)
	assert.Equal(t, "none", pushed[1].Item.GradeType)

	launch, err := f.games.LaunchURL(ctx, g.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("https://games.example.com/gabi/index.html?ggid=%d&uid=5", g.ID), launch.URL)

	require.NoError(t, f.games.Delete(ctx, g.ID))
	_, err = f.games.Get(ctx, g.ID)
	require.ErrorIs(t, err, util.ErrGameNotFound)
	require.ErrorIs(t, f.games.Delete(ctx, g.ID), util.ErrGameNotFound)
}
