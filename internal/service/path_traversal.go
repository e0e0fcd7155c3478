package service

import (
	"context"
	"fmt"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"time"
)

// resolveActivePathID 画像上的当前路径优先，其次是排名最高的有效推荐
func resolveActivePathID(ctx context.Context, profile *model.LearningProfile, recs *repository.RecommendationRepository, now time.Time) (uint, error) {
	if profile.ActiveCareerPathID != nil {
		return *profile.ActiveCareerPathID, nil
	}
	active, err := recs.ListActive(ctx, profile.UserID, model.TargetCareerPath, now)
	if err != nil {
		return 0, fmt.Errorf("list recommendations: %w", err)
	}
	if len(active) == 0 {
		return 0, util.ErrNoActivePath
	}
	return active[0].TargetID, nil
}

func nodeCourseIDs(nodes []model.SkillNode) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, n := range nodes {
		if n.CourseID == nil || seen[*n.CourseID] {
			continue
		}
		seen[*n.CourseID] = true
		ids = append(ids, *n.CourseID)
	}
	return ids
}

func groupLessonsByCourse(lessons []model.Lesson) map[uint][]model.Lesson {
	byCourse := make(map[uint][]model.Lesson)
	for _, l := range lessons {
		byCourse[l.CourseID] = append(byCourse[l.CourseID], l)
	}
	return byCourse
}

// CompletedNodes 课程下所有已发布课时都完成的节点视为完成，没有课程的节点直接视为完成
func CompletedNodes(nodes []model.SkillNode, lessonsByCourse map[uint][]model.Lesson, completed map[uint]bool) map[uint]bool {
	done := make(map[uint]bool, len(nodes))
	for _, n := range nodes {
		if n.CourseID == nil {
			done[n.ID] = true
			continue
		}
		all := true
		for _, l := range lessonsByCourse[*n.CourseID] {
			if !completed[l.ID] {
				all = false
				break
			}
		}
		done[n.ID] = all
	}
	return done
}

// AvailableNodes 按路径顺序返回未完成且前置节点全部完成的节点
func AvailableNodes(nodes []model.SkillNode, done map[uint]bool) []model.SkillNode {
	var available []model.SkillNode
	for _, n := range nodes {
		if done[n.ID] {
			continue
		}
		ready := true
		for _, pre := range n.Prerequisites {
			if !done[pre] {
				ready = false
				break
			}
		}
		if ready {
			available = append(available, n)
		}
	}
	return available
}

// pendingPathLessons 按节点顺序列出路径上尚未完成的课时
func pendingPathLessons(nodes []model.SkillNode, lessonsByCourse map[uint][]model.Lesson, completed map[uint]bool, courseTitles map[uint]string) []PlanLesson {
	seen := make(map[uint]bool)
	var pending []PlanLesson
	for _, n := range nodes {
		if n.CourseID == nil || seen[*n.CourseID] {
			continue
		}
		seen[*n.CourseID] = true
		for _, l := range lessonsByCourse[*n.CourseID] {
			if completed[l.ID] {
				continue
			}
			pending = append(pending, PlanLesson{
				LessonID:    l.ID,
				CourseID:    l.CourseID,
				Title:       l.Title,
				CourseTitle: courseTitles[l.CourseID],
			})
		}
	}
	return pending
}
