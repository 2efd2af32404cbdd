package controller

import (
	"errors"
	"net/http"
	"sapaa_backend/internal/inspection"
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// submitFailedMessage 提交失败时草稿仍保留，提示用户稍后重试
const submitFailedMessage = "inspection submission failed, your draft was kept"

var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrSiteNotFound, http.StatusNotFound},
	{util.ErrReportNotFound, http.StatusNotFound},
	{util.ErrQuestionNotFound, http.StatusNotFound},
	{inspection.ErrUnknownQuestion, http.StatusNotFound},
	{util.ErrEmailRegistered, http.StatusConflict},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrAccountDisabled, http.StatusForbidden},
	{util.ErrPermissionDenied, http.StatusForbidden},
	{util.ErrCannotModifySelf, http.StatusForbidden},
	{util.ErrLiabilityNotAccepted, http.StatusForbidden},
	{util.ErrLiabilityMismatch, http.StatusBadRequest},
	{util.ErrInvalidRole, http.StatusBadRequest},
	{util.ErrInvalidFileType, http.StatusUnsupportedMediaType},
	{util.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrNotFileQuestion, http.StatusBadRequest},
	{service.ErrNotChoiceQuestion, http.StatusBadRequest},
	{inspection.ErrInvalidOption, http.StatusBadRequest},
	{inspection.ErrInvalidDate, http.StatusBadRequest},
	{inspection.ErrInvalidAnswer, http.StatusBadRequest},
	{inspection.ErrEmptyChange, http.StatusBadRequest},
	{inspection.ErrUnsupportedQuestionType, http.StatusBadRequest},
}

// respondError 将领域错误映射为 HTTP 状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	var missing *inspection.MissingRequiredError
	if errors.As(err, &missing) {
		util.ErrorWithData(ctx, http.StatusUnprocessableEntity, "required questions are unanswered", gin.H{"missing": missing.Labels})
		return
	}

	if errors.Is(err, service.ErrSubmissionFailed) {
		logger.Log.Error("Inspection submission failed", zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, submitFailedMessage)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			util.Error(ctx, e.status, e.err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// paramID 解析路径中的数字 ID，非法时直接返回 400
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
