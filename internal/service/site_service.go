package service

import (
	"context"
	"errors"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type SiteService struct {
	SiteRepo   *repository.SiteRepository
	ReportRepo *repository.InspectionRepository
}

func NewSiteService(siteRepo *repository.SiteRepository, reportRepo *repository.InspectionRepository) *SiteService {
	return &SiteService{SiteRepo: siteRepo, ReportRepo: reportRepo}
}

func (s *SiteService) ListSites(ctx context.Context, page, limit int, search string) (*util.PageResponse, error) {
	sites, total, err := s.SiteRepo.FindWithPagination(ctx, (page-1)*limit, limit, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: sites, Total: total, Page: page, Limit: limit}, nil
}

func (s *SiteService) GetSite(ctx context.Context, id uint) (*model.Site, error) {
	site, err := s.SiteRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSiteNotFound
	}
	return site, err
}

// ListInspections 站点的历史巡查记录，最新在前
func (s *SiteService) ListInspections(ctx context.Context, siteID uint, page, limit int) (*util.PageResponse, error) {
	if _, err := s.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	reports, total, err := s.ReportRepo.ListBySite(ctx, siteID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: reports, Total: total, Page: page, Limit: limit}, nil
}
