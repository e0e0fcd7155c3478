// 手动触发全量难度校准脚本
//
// 主应用后台每 24 小时自动执行一次。
// 此脚本用于导入历史学习数据后立即刷新所有用户的难度等级。
//
// 用法: go run scripts/recalibrate_all.go [-config configs] [-user 42]

package main

import (
	"context"
	"flag"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/service"
	"learnpath_backend/pkg/database"
	"learnpath_backend/pkg/logger"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type report struct {
	StartedAt    time.Time `yaml:"started_at"`
	DurationMs   int64     `yaml:"duration_ms"`
	UserID       uint      `yaml:"user_id,omitempty"`
	Recalibrated int       `yaml:"recalibrated"`
	Tier         string    `yaml:"tier,omitempty"`
	Score        float64   `yaml:"score,omitempty"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	userID := flag.Uint("user", 0, "只校准指定用户")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	calibrator := service.NewDifficultyCalibrator(
		repository.NewLearningProfileRepository(db),
		repository.NewPerformanceRepository(db),
		repository.NewUserRepository(db),
		cfg.Recommender.Calibration,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	r := report{StartedAt: time.Now()}
	if *userID > 0 {
		res, err := calibrator.Recalibrate(ctx, *userID)
		if err != nil {
			log.Fatalf("校准失败: %v", err)
		}
		r.UserID = *userID
		r.Recalibrated = 1
		r.Tier = string(res.NewDifficulty)
		r.Score = res.NewScore
	} else {
		n, err := calibrator.RecalibrateAll(ctx)
		if err != nil {
			log.Fatalf("批量校准失败: %v", err)
		}
		r.Recalibrated = n
	}
	r.DurationMs = time.Since(r.StartedAt).Milliseconds()

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		log.Fatalf("输出结果失败: %v", err)
	}
}
