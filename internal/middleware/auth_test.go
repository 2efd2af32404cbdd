package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type revocations struct {
	revoked map[string]bool
	err     error
}

func (r revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.revoked[id], r.err
}

func tokenFor(t *testing.T, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Email: "a@example.com", Role: role}
	user.ID = 5
	token, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	claims, err := util.ParseJWT(token, secret)
	require.NoError(t, err)
	return token, claims
}

func newRouter(revs TokenRevocations, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(secret, revs)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	r.GET("/", handlers...)
	return r
}

func get(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	token, claims := tokenFor(t, model.Guest)

	assert.Equal(t, http.StatusUnauthorized, get(newRouter(nil), ""))
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(nil), "garbage"))
	assert.Equal(t, http.StatusOK, get(newRouter(nil), token))

	revoked := revocations{revoked: map[string]bool{claims.ID: true}}
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(revoked), token))

	broken := revocations{err: errors.New("redis down")}
	assert.Equal(t, http.StatusOK, get(newRouter(broken), token))
}

func TestRoleMiddleware(t *testing.T) {
	guest, _ := tokenFor(t, model.Guest)
	admin, _ := tokenFor(t, model.Admin)
	steward, _ := tokenFor(t, model.Steward)

	assert.Equal(t, http.StatusForbidden, get(newRouter(nil, model.Steward), guest))
	assert.Equal(t, http.StatusOK, get(newRouter(nil, model.Steward), steward))
	assert.Equal(t, http.StatusOK, get(newRouter(nil, model.Steward), admin))
}

type activityRecorder struct {
	mu   sync.Mutex
	seen []uint
}

func (a *activityRecorder) UpdateLastSeen(_ context.Context, id uint, _ time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seen = append(a.seen, id)
	return nil
}

func (a *activityRecorder) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}

func TestActivityMiddlewareRecordsAuthenticatedUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &activityRecorder{}
	token, _ := tokenFor(t, model.Guest)

	r := gin.New()
	r.GET("/", AuthMiddleware(secret, nil), ActivityMiddleware(rec), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, get(r, token))

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)
}
