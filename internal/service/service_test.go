package service

import (
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/testutil"
	"sapaa_backend/pkg/authstate"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	cfg       *config.Config
	events    *authstate.Broadcaster
	auth      *AuthService
	users     *UserService
	sites     *SiteService
	liability *LiabilityService
	insp      *InspectionService
	dashboard *DashboardService
	questions []model.Question
	site      model.Site
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Storage.MaxUploadMB = 1
	cfg.Inspection.DraftTTL = time.Hour
	cfg.Inspection.LiabilityPhrase = config.DefaultLiabilityPhrase

	userRepo := repository.NewUserRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reportRepo := repository.NewInspectionRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	drafts := repository.NewDraftRepository(rdb, cfg.Inspection.DraftTTL)
	tokens := repository.NewTokenRepository(rdb)
	events := authstate.NewBroadcaster()
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &cfg.Storage}}

	return &fixture{
		db:        db,
		mr:        mr,
		cfg:       cfg,
		events:    events,
		auth:      NewAuthService(userRepo, tokens, events, cfg),
		users:     NewUserService(userRepo),
		sites:     NewSiteService(siteRepo, reportRepo),
		liability: NewLiabilityService(userRepo, cfg),
		insp:      NewInspectionService(questionRepo, reportRepo, siteRepo, userRepo, attachmentRepo, drafts, storage, cfg),
		dashboard: NewDashboardService(siteRepo, userRepo, reportRepo, questionRepo),
		questions: testutil.SeedForm(t, db),
		site:      testutil.SeedSite(t, db, "Wagner"),
	}
}
