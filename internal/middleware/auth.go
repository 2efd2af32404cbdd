package middleware

import (
	"context"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/logger"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenRevocations 登出后的 token 黑名单
type TokenRevocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func AuthMiddleware(secret string, revocations TokenRevocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("Rejected token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// 黑名单不可用时放行，避免 Redis 故障导致全站不可用
				logger.Log.Warn("Token revocation check failed", zap.Error(err))
			} else if revoked {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set(util.ContextUser, claims)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(ctx context.Context, userID uint, at time.Time) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			// 异步更新，不阻塞主流程
			userID := claims.UserID
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := repo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
					logger.Log.Warn("Failed to update last seen", zap.Uint("userID", userID), zap.Error(err))
				}
			}()
		}
		c.Next()
	}
}
