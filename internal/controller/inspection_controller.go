package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sapaa_backend/internal/inspection"
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InspectionController struct {
	InspectionService *service.InspectionService
}

func NewInspectionController(inspectionService *service.InspectionService) *InspectionController {
	return &InspectionController{InspectionService: inspectionService}
}

// GetQuestions godoc
// @Summary 巡查表单题目
// @Description 按分区整理后的题目，题目获取失败时返回空表单
// @Tags 巡查
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=inspection.Layout}
// @Router /api/inspection/questions [get]
func (c *InspectionController) GetQuestions(ctx *gin.Context) {
	layout := c.InspectionService.LayoutOrEmpty(ctx.Request.Context())
	if layout.Sections == nil {
		layout.Sections = []inspection.Section{}
	}
	util.Success(ctx, layout)
}

// GetForm godoc
// @Summary 打开巡查表单
// @Description 返回分区、题目描述、进度以及已保存的草稿答案
// @Tags 巡查
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Success 200 {object} util.Response{data=service.FormView}
// @Failure 404 {object} util.Response
// @Router /api/sites/{id}/inspection [get]
func (c *InspectionController) GetForm(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	siteID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.InspectionService.GetForm(ctx.Request.Context(), userID, siteID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateAnswer godoc
// @Summary 修改答案
// @Description value 设置单值，values 替换多选，toggle 切换一个选项，checked 设置确认框
// @Tags 巡查
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Param questionId path int true "题目ID"
// @Param body body inspection.Change true "修改内容"
// @Success 200 {object} util.Response{data=service.ChangeResult}
// @Failure 400 {object} util.Response
// @Router /api/sites/{id}/inspection/answers/{questionId} [put]
func (c *InspectionController) UpdateAnswer(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	siteID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := paramID(ctx, "questionId")
	if !ok {
		return
	}

	var change inspection.Change
	if err := ctx.ShouldBindJSON(&change); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InspectionService.ApplyChange(ctx.Request.Context(), userID, siteID, questionID, change)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ClearDraft godoc
// @Summary 丢弃草稿
// @Tags 巡查
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Success 200 {object} util.Response
// @Router /api/sites/{id}/inspection/draft [delete]
func (c *InspectionController) ClearDraft(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	siteID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := c.InspectionService.ClearDraft(ctx.Request.Context(), userID, siteID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadFile godoc
// @Summary 上传文件题附件
// @Description 支持图片、视频与 PDF，文件地址会追加到该题答案中
// @Tags 巡查
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Param questionId path int true "题目ID"
// @Param file formData file true "文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 413 {object} util.Response "文件过大"
// @Failure 415 {object} util.Response "文件类型不支持"
// @Router /api/sites/{id}/inspection/files/{questionId} [post]
func (c *InspectionController) UploadFile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	siteID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := paramID(ctx, "questionId")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	attachment, result, err := c.InspectionService.UploadFile(ctx.Request.Context(), userID, siteID, questionID, service.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Reader:   file,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"attachment": attachment, "answer": result})
}

// SubmitRequest responses 可选，提供时替换草稿中的答案
// swagger:model SubmitRequest
type SubmitRequest struct {
	Responses json.RawMessage `json:"responses" swaggertype:"object"`
}

// Submit godoc
// @Summary 提交巡查
// @Description 必答题未完成时返回 422 与未完成题号；提交失败时草稿保留
// @Tags 巡查
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "站点ID"
// @Param body body SubmitRequest false "答案"
// @Success 201 {object} util.Response{data=service.SubmitResult}
// @Failure 403 {object} util.Response "访客未完成免责声明确认"
// @Failure 422 {object} util.Response{data=object} "必答题未完成"
// @Failure 500 {object} util.Response "提交失败，草稿已保留"
// @Router /api/sites/{id}/inspection/submit [post]
func (c *InspectionController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	siteID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	// 请求体可选，空请求体（包括 chunked）按未提交答案处理
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InspectionService.Submit(ctx.Request.Context(), userID, siteID, req.Responses)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, util.Response{Code: http.StatusCreated, Message: "inspection submitted", Data: result})
}

// GetReport godoc
// @Summary 巡查报告详情
// @Tags 巡查
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "报告ID"
// @Success 200 {object} util.Response{data=model.InspectionReport}
// @Failure 403 {object} util.Response "仅提交人和管理员可查看"
// @Failure 404 {object} util.Response
// @Router /api/inspections/{id} [get]
func (c *InspectionController) GetReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	report, err := c.InspectionService.GetReport(ctx.Request.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
