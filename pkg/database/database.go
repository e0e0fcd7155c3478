package database

import (
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := gormlogger.Warn
	if mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          gormlogger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	return db, nil
}

// Models 需要自动迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Checkin{},
		&model.LearningLog{},
		&model.Motivation{},
		&model.LearningProfile{},
		&model.CareerPath{},
		&model.SkillNode{},
		&model.PathEnrollment{},
		&model.Recommendation{},
		&model.StudyPlan{},
		&model.StudyPlanItem{},
		&model.Course{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.CourseEnrollment{},
		&model.QuizAnswer{},
		&model.ChallengeSubmission{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")
	return SeedMotivations(db)
}

// SeedMotivations 激励短句为空时写入默认内容
func SeedMotivations(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Motivation{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []string{
		"每完成一节课，离目标就更近一步。继续加油！",
		"学习是唯一的财富，因为它可以被分享而不会减少。",
		"Consistency beats intensity. Show up today.",
		"不必知道所有答案，重要的是知道如何找到它们。",
	}
	motivations := make([]model.Motivation, len(defaults))
	for i, content := range defaults {
		motivations[i] = model.Motivation{Content: content, IsEnabled: true}
	}
	return db.Create(&motivations).Error
}
