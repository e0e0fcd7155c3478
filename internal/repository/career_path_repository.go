package repository

import (
	"context"
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type CareerPathRepository struct {
	DB *gorm.DB
}

func NewCareerPathRepository(db *gorm.DB) *CareerPathRepository {
	return &CareerPathRepository{DB: db}
}

func orderedNodes(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// ListPublished 返回所有已发布路径及其节点（按节点顺序）
func (r *CareerPathRepository) ListPublished(ctx context.Context) ([]model.CareerPath, error) {
	var paths []model.CareerPath
	err := r.DB.WithContext(ctx).
		Preload("Nodes", orderedNodes).
		Where("is_published = ?", true).
		Order("id ASC").
		Find(&paths).Error
	return paths, err
}

func (r *CareerPathRepository) FindByID(ctx context.Context, id uint) (*model.CareerPath, error) {
	var p model.CareerPath
	err := r.DB.WithContext(ctx).Preload("Nodes", orderedNodes).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CareerPathRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.CareerPath, error) {
	var paths []model.CareerPath
	if len(ids) == 0 {
		return paths, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&paths).Error
	return paths, err
}

// Stats 按路径聚合报名数与完成数
func (r *CareerPathRepository) Stats(ctx context.Context) (map[uint]model.PathStats, error) {
	var rows []model.PathStats
	err := r.DB.WithContext(ctx).Model(&model.PathEnrollment{}).
		Select("career_path_id, COUNT(*) AS enrollments, SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completions").
		Group("career_path_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[uint]model.PathStats, len(rows))
	for _, s := range rows {
		stats[s.CareerPathID] = s
	}
	return stats, nil
}
