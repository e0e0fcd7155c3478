package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Service *service.RecommendationService
}

func NewRecommendationController(svc *service.RecommendationService) *RecommendationController {
	return &RecommendationController{Service: svc}
}

// @Summary 提交学前评估
// @Description 游客也可提交，游客的画像与推荐不会保存
// @Tags 推荐
// @Accept json
// @Produce json
// @Param body body service.AssessmentAnswers true "评估答案"
// @Success 200 {object} util.Response{data=service.AssessmentResult}
// @Router /api/assessment/submit [post]
func (c *RecommendationController) SubmitAssessment(ctx *gin.Context) {
	var req service.AssessmentAnswers
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitAssessment(ctx.Request.Context(), util.GetUserIDPtr(ctx), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取学习画像
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.LearningProfile}
// @Router /api/recommendations/profile [get]
func (c *RecommendationController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Service.GetProfile(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 获取推荐的职业路径
// @Description 有未过期推荐时直接返回，否则重新评分
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.PathRecommendation}
// @Router /api/recommendations/paths [get]
func (c *RecommendationController) GetRecommendedPaths(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	paths, err := c.Service.GetRecommendedPaths(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// @Summary 获取下一节推荐课时
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.NextLessonResult}
// @Router /api/recommendations/next-lesson [get]
func (c *RecommendationController) GetNextLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Service.GetNextLesson(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 重新校准难度
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.CalibrationResult}
// @Router /api/recommendations/recalibrate [post]
func (c *RecommendationController) Recalibrate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Service.Recalibrate(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 忽略推荐
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Param id path string true "推荐ID"
// @Success 200 {object} util.Response{data=model.Recommendation}
// @Router /api/recommendations/{id}/dismiss [post]
func (c *RecommendationController) Dismiss(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rec, err := c.Service.DismissRecommendation(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary 接受推荐
// @Description 接受职业路径推荐会将其设为当前路径
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Param id path string true "推荐ID"
// @Success 200 {object} util.Response{data=model.Recommendation}
// @Router /api/recommendations/{id}/accept [post]
func (c *RecommendationController) Accept(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rec, err := c.Service.AcceptRecommendation(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary 获取相似学员推荐的课程
// @Description 用户数不足时返回空列表
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.CourseRecommendation}
// @Router /api/recommendations/collaborative [get]
func (c *RecommendationController) GetCollaborative(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	recs, err := c.Service.GetCollaborativeRecommendations(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}
