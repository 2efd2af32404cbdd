package controller

import (
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 管理后台统计
// @Description 总量、巡查最多的站点以及最近 12 个月的巡查数量
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/admin/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetQuestionDistribution godoc
// @Summary 选择题答案分布
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionDistribution}
// @Failure 400 {object} util.Response "非选择题"
// @Router /api/admin/dashboard/questions/{id} [get]
func (c *DashboardController) GetQuestionDistribution(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	dist, err := c.DashboardService.QuestionDistribution(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dist)
}
