package repository

import (
	"context"
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

// CourseRepository 课程与课时只读访问
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// PublishedLessons 返回给定课程下已发布的课时，按课程内顺序排列
func (r *CourseRepository) PublishedLessons(ctx context.Context, courseIDs []uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if len(courseIDs) == 0 {
		return lessons, nil
	}
	err := r.DB.WithContext(ctx).
		Where("course_id IN ? AND is_published = ?", courseIDs, true).
		Order("course_id ASC, sort_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepository) CompletedLessonIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.LessonCompletion{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}

	done := make(map[uint]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

func (r *CourseRepository) FindCoursesByIDs(ctx context.Context, ids []uint) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}
