package service

import (
	"context"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/monitoring"
	"strings"
	"time"
)

// LiabilityService 访客在提交巡查前必须输入确认语句并勾选条款
type LiabilityService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewLiabilityService(userRepo *repository.UserRepository, cfg *config.Config) *LiabilityService {
	return &LiabilityService{UserRepo: userRepo, Cfg: cfg}
}

// PhraseAccepted 语句去除首尾空白后须与预期完全一致（区分大小写），且勾选了条款
func PhraseAccepted(expected, phrase string, acceptedTerms bool) bool {
	return acceptedTerms && strings.TrimSpace(phrase) == expected
}

func (s *LiabilityService) phrase() string {
	if s.Cfg.Inspection.LiabilityPhrase == "" {
		return config.DefaultLiabilityPhrase
	}
	return s.Cfg.Inspection.LiabilityPhrase
}

// Verify 管理员和巡护员直接通过，不记录确认时间
func (s *LiabilityService) Verify(ctx context.Context, userID uint, phrase string, acceptedTerms bool) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.Role != model.Guest {
		monitoring.LiabilityChecks.WithLabelValues("bypassed").Inc()
		return user, nil
	}

	if !PhraseAccepted(s.phrase(), phrase, acceptedTerms) {
		monitoring.LiabilityChecks.WithLabelValues("rejected").Inc()
		return nil, util.ErrLiabilityMismatch
	}

	now := time.Now()
	if err := s.UserRepo.MarkLiabilityAccepted(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LiabilityAcceptedAt = &now
	monitoring.LiabilityChecks.WithLabelValues("accepted").Inc()
	return user, nil
}
