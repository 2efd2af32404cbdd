package controller

import (
	"sapaa_backend/internal/service"
	"sapaa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService      *service.AuthService
	LiabilityService *service.LiabilityService
}

func NewAuthController(authService *service.AuthService, liabilityService *service.LiabilityService) *AuthController {
	return &AuthController{
		AuthService:      authService,
		LiabilityService: liabilityService,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary 注册新用户
// @Description 新注册用户为访客身份
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "role": user.Role})
}

// LoginRequest defines model for login
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object} "token 与用户信息"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Failure 403 {object} util.Response "账号已禁用"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token":                 token,
		"user":                  user,
		"needsLiabilityConsent": user.NeedsLiabilityCheck(),
	})
}

// Logout godoc
// @Summary 退出登录
// @Description 当前 token 立即失效
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetProfile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	user, err := c.AuthService.GetCurrentUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// LiabilityRequest 免责声明确认
// swagger:model LiabilityRequest
type LiabilityRequest struct {
	Phrase        string `json:"phrase"`
	AcceptedTerms bool   `json:"acceptedTerms"`
}

// VerifyLiability godoc
// @Summary 免责声明确认
// @Description 访客需输入确认语句并勾选条款；巡护员与管理员直接通过
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body LiabilityRequest true "确认语句"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "确认语句不匹配或未勾选条款"
// @Router /api/liability/verify [post]
func (c *AuthController) VerifyLiability(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req LiabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.LiabilityService.Verify(ctx.Request.Context(), userID, req.Phrase, req.AcceptedTerms)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
