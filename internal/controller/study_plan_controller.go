package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyPlanController struct {
	Service *service.RecommendationService
}

func NewStudyPlanController(svc *service.RecommendationService) *StudyPlanController {
	return &StudyPlanController{Service: svc}
}

// @Summary 生成学习计划
// @Description 未指定路径时使用当前路径；已有进行中的计划会被暂停
// @Tags 学习计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GeneratePlanRequest false "计划参数"
// @Success 201 {object} util.Response{data=model.StudyPlan}
// @Router /api/study-plans [post]
func (c *StudyPlanController) Generate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GeneratePlanRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	plan, err := c.Service.GenerateStudyPlan(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, plan)
}

// @Summary 获取进行中的学习计划
// @Description 没有进行中的计划时 data 为 null
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.StudyPlan}
// @Router /api/study-plans/active [get]
func (c *StudyPlanController) GetActive(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.Service.GetActivePlan(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// @Summary 获取今日计划
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TodayPlan}
// @Router /api/study-plans/today [get]
func (c *StudyPlanController) GetToday(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	today, err := c.Service.GetTodayPlan(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, today)
}

// @Summary 完成计划条目
// @Description 完成里程碑会奖励经验值
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目ID"
// @Success 200 {object} util.Response{data=model.StudyPlanItem}
// @Router /api/study-plans/items/{id}/complete [post]
func (c *StudyPlanController) CompleteItem(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	item, err := c.Service.CompleteStudyPlanItem(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// @Summary 更新学习计划
// @Description 修改状态或每日时长，修改时长不会重新排期
// @Tags 学习计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "计划ID"
// @Param body body service.UpdatePlanRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.StudyPlan}
// @Router /api/study-plans/{id} [patch]
func (c *StudyPlanController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.Service.UpdateStudyPlan(ctx.Request.Context(), user.UserID, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}
