package service

import (
	"context"
	"errors"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/authstate"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Tokens   *repository.TokenRepository
	Events   *authstate.Broadcaster
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, tokens *repository.TokenRepository, events *authstate.Broadcaster, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Events:   events,
		Cfg:      cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) publish(t authstate.EventType, user *model.User) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(authstate.Event{Type: t, UserID: user.ID, Role: string(user.Role)})
}

// Register 新用户默认为访客，需要通过免责声明后才能提交巡查
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.Guest,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(authstate.Registered, user)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, util.ErrInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return "", nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	s.publish(authstate.SignedIn, user)
	return token, user, nil
}

// Logout 将 token 加入黑名单直到其自然过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Tokens != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.Tokens.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			return err
		}
	}

	s.publish(authstate.SignedOut, &model.User{BaseModel: model.BaseModel{ID: claims.UserID}, Role: claims.Role})
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}
