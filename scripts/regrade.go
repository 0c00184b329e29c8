// 重新计算某个活动全部学生的成绩并推送到成绩册
//
// 评分方式或满分修改后，已有成绩不会自动重算，可用此脚本补推。
//
// 用法: go run scripts/regrade.go -game 3 [-config configs/config.yaml]

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"gabigame_backend/internal/config"
	"gabigame_backend/internal/gradebook"
	"gabigame_backend/internal/repository"
	"gabigame_backend/internal/service"
	"gabigame_backend/internal/util"
	"gabigame_backend/pkg/database"
	"gabigame_backend/pkg/lock"
	"gabigame_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type scriptConfig struct {
	Server    config.ServerConfig    `yaml:"server"`
	Database  config.DatabaseConfig  `yaml:"database"`
	Gradebook config.GradebookConfig `yaml:"gradebook"`
	Log       config.LogConfig       `yaml:"log"`
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	gameID := flag.Uint("game", 0, "活动ID")
	flag.Parse()

	if *gameID == 0 {
		log.Fatal("必须指定 -game")
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var sc scriptConfig
	if err := yaml.Unmarshal(data, &sc); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	cfg := &config.Config{Server: sc.Server, Database: sc.Database, Gradebook: sc.Gradebook, Log: sc.Log}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sink, err := gradebook.New(cfg.Gradebook, logger.Log)
	if err != nil {
		log.Fatalf("成绩册初始化失败: %v", err)
	}
	defer sink.Close()

	attempts := repository.NewAttemptRepository(db)
	grades := service.NewGradeService(
		repository.NewGameRepository(db),
		attempts,
		repository.NewGradeRepository(db),
		sink,
		lock.NewMemoryLocker(5*time.Second),
		logger.Log,
	)

	ctx := context.Background()
	users, err := attempts.UserIDs(ctx, *gameID)
	if err != nil {
		log.Fatalf("查询学生失败: %v", err)
	}

	failed := 0
	for _, userID := range users {
		res, err := grades.SaveBestScore(ctx, *gameID, userID)
		if err != nil {
			if errors.Is(err, util.ErrGameNotFound) {
				log.Fatalf("活动 %d 不存在", *gameID)
			}
			failed++
			logger.Log.Error("regrade failed", zap.Uint("user_id", userID), zap.Error(err))
			continue
		}
		logger.Log.Info("regraded",
			zap.Uint("user_id", userID),
			zap.Float64("score", res.Score),
			zap.Int("raw_grade", res.RawGrade))
	}

	log.Printf("完成: %d 名学生, %d 个失败", len(users), failed)
}
