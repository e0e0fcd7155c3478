package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Calibrator *service.DifficultyCalibrator
}

func NewAdminController(calibrator *service.DifficultyCalibrator) *AdminController {
	return &AdminController{Calibrator: calibrator}
}

// @Summary 批量重新校准难度
// @Description 对所有活跃且完成引导的用户执行一次校准
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/recalibrate-all [post]
func (c *AdminController) RecalibrateAll(ctx *gin.Context) {
	updated, err := c.Calibrator.RecalibrateAll(ctx.Request.Context())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": updated})
}
