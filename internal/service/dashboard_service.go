package service

import (
	"context"
	"errors"
	"sapaa_backend/internal/inspection"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const (
	dashboardTopSites = 10
	dashboardMonths   = 12
)

var ErrNotChoiceQuestion = errors.New("answer distribution is only available for choice questions")

// swagger:model DashboardTotals
type DashboardTotals struct {
	Sites        int64 `json:"sites"`
	Users        int64 `json:"users"`
	Reports      int64 `json:"reports"`
	Observations int64 `json:"observations"`
}

// swagger:model MonthCount
type MonthCount struct {
	Month   string `json:"month"` // 2006-01
	Reports int    `json:"reports"`
}

// swagger:model Dashboard
type Dashboard struct {
	Totals   DashboardTotals              `json:"totals"`
	TopSites []repository.SiteReportCount `json:"topSites"`
	Monthly  []MonthCount                 `json:"monthly"`
}

// swagger:model QuestionDistribution
type QuestionDistribution struct {
	QuestionID uint                     `json:"questionId"`
	Text       string                   `json:"text"`
	Answers    []repository.AnswerCount `json:"answers"`
}

type DashboardService struct {
	SiteRepo     *repository.SiteRepository
	UserRepo     *repository.UserRepository
	ReportRepo   *repository.InspectionRepository
	QuestionRepo *repository.QuestionRepository
}

func NewDashboardService(
	siteRepo *repository.SiteRepository,
	userRepo *repository.UserRepository,
	reportRepo *repository.InspectionRepository,
	questionRepo *repository.QuestionRepository,
) *DashboardService {
	return &DashboardService{
		SiteRepo:     siteRepo,
		UserRepo:     userRepo,
		ReportRepo:   reportRepo,
		QuestionRepo: questionRepo,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.Totals.Sites, err = s.SiteRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.Totals.Users, err = s.UserRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.Totals.Reports, err = s.ReportRepo.CountReports(ctx); err != nil {
		return nil, err
	}
	if d.Totals.Observations, err = s.ReportRepo.CountObservations(ctx); err != nil {
		return nil, err
	}

	if d.TopSites, err = s.ReportRepo.TopSites(ctx, dashboardTopSites); err != nil {
		return nil, err
	}
	if d.TopSites == nil {
		d.TopSites = []repository.SiteReportCount{}
	}

	start := monthStart(now).AddDate(0, -(dashboardMonths - 1), 0)
	times, err := s.ReportRepo.ReportTimesSince(ctx, start)
	if err != nil {
		return nil, err
	}
	d.Monthly = BucketByMonth(times, now, dashboardMonths)
	return &d, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// BucketByMonth 统计最近 months 个月（含当月）每月的报告数，按时间升序
func BucketByMonth(times []time.Time, now time.Time, months int) []MonthCount {
	out := make([]MonthCount, months)
	index := make(map[string]int, months)
	first := monthStart(now).AddDate(0, -(months - 1), 0)
	for i := range out {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = key
		index[key] = i
	}
	for _, t := range times {
		if i, ok := index[t.In(now.Location()).Format("2006-01")]; ok {
			out[i].Reports++
		}
	}
	return out
}

// QuestionDistribution 选择题各选项被选次数，未被选过的选项计 0
func (s *DashboardService) QuestionDistribution(ctx context.Context, questionID uint) (*QuestionDistribution, error) {
	q, err := s.QuestionRepo.FindByID(ctx, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	} else if err != nil {
		return nil, err
	}

	switch inspection.QuestionType(q.QuestionType) {
	case inspection.TypeSingleChoice, inspection.TypeMultiSelect:
	default:
		return nil, ErrNotChoiceQuestion
	}

	counts, err := s.ReportRepo.AnswerDistribution(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &QuestionDistribution{
		QuestionID: q.ID,
		Text:       q.Text,
		Answers:    mergeOptions(q, counts),
	}, nil
}

// mergeOptions 按选项顺序输出，历史数据中已不存在的选项追加在末尾
func mergeOptions(q *model.Question, counts []repository.AnswerCount) []repository.AnswerCount {
	byValue := make(map[string]int64, len(counts))
	for _, c := range counts {
		byValue[c.Value] = c.Count
	}

	out := make([]repository.AnswerCount, 0, len(q.Answers)+len(counts))
	seen := make(map[string]bool, len(q.Answers))
	for _, opt := range q.Answers {
		out = append(out, repository.AnswerCount{Value: opt, Count: byValue[opt]})
		seen[opt] = true
	}
	for _, c := range counts {
		if !seen[c.Value] {
			out = append(out, c)
		}
	}
	return out
}
