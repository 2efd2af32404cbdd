package controller

import (
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SiteController struct {
	SiteService *service.SiteService
}

func NewSiteController(siteService *service.SiteService) *SiteController {
	return &SiteController{SiteService: siteService}
}

// ListSites godoc
// @Summary 站点列表
// @Description 按名称或所在县搜索保护区站点
// @Tags 站点
// @Produce  json
// @Security ApiKeyAuth
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/sites [get]
func (c *SiteController) ListSites(ctx *gin.Context) {
	page, limit, _ := util.ParsePage(ctx)
	result, err := c.SiteService.ListSites(ctx.Request.Context(), page, limit, ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetSite godoc
// @Summary 站点详情
// @Tags 站点
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Success 200 {object} util.Response{data=model.Site}
// @Failure 404 {object} util.Response
// @Router /api/sites/{id} [get]
func (c *SiteController) GetSite(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	site, err := c.SiteService.GetSite(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, site)
}

// ListInspections godoc
// @Summary 站点巡查记录
// @Tags 站点
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/sites/{id}/inspections [get]
func (c *SiteController) ListInspections(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	page, limit, _ := util.ParsePage(ctx)
	result, err := c.SiteService.ListInspections(ctx.Request.Context(), id, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
