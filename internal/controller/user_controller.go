package controller

import (
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserController 管理后台账号管理
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListUsers godoc
// @Summary 用户列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param role query string false "角色" Enums(steward, guest, admin)
// @Param disabled query bool false "是否禁用"
// @Param search query string false "姓名或邮箱"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, limit, _ := util.ParsePage(ctx)
	filter := repository.UserFilter{
		Role:   model.UserRole(ctx.Query("role")),
		Search: ctx.Query("search"),
	}
	if raw := ctx.Query("disabled"); raw != "" {
		disabled, err := strconv.ParseBool(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid disabled filter")
			return
		}
		filter.Disabled = &disabled
	}

	result, err := c.UserService.GetUsers(ctx.Request.Context(), page, limit, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetUser godoc
// @Summary 用户详情
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 修改用户
// @Description 管理员不能降级或禁用自己
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserRequest true "修改内容"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 403 {object} util.Response
// @Router /api/admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DisableUser godoc
// @Summary 禁用用户
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id}/disable [post]
func (c *UserController) DisableUser(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserService.DisableUser(ctx.Request.Context(), actorID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除用户
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := c.UserService.DeleteUser(ctx.Request.Context(), actorID, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
