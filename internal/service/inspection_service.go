package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/inspection"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/logger"
	"sapaa_backend/pkg/monitoring"
	"sapaa_backend/pkg/tracing"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrSubmissionFailed wraps any failure after validation; the draft is kept.
	ErrSubmissionFailed = errors.New("inspection submission failed")
	ErrNotFileQuestion  = errors.New("question does not accept files")
)

// FormView 一次表单挂载的完整状态
// swagger:model FormView
type FormView struct {
	Site        *model.Site          `json:"site"`
	Sections    []inspection.Section `json:"sections"`
	Fields      []inspection.Field   `json:"fields"`
	Responses   inspection.Responses `json:"responses"`
	Progress    ProgressView         `json:"progress"`
	DraftLoaded bool                 `json:"draftLoaded"`
}

// ProgressView 进度，Label 形如 "3 / 11 answered"
type ProgressView struct {
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
	Ratio    float64 `json:"ratio"`
	Percent  int     `json:"percent"`
	Label    string  `json:"label"`
}

func newProgressView(p inspection.Progress) ProgressView {
	return ProgressView{
		Answered: p.Answered,
		Total:    p.Total,
		Ratio:    p.Ratio(),
		Percent:  p.Percent(),
		Label:    p.String(),
	}
}

// ChangeResult 单题修改后的返回
type ChangeResult struct {
	Field      inspection.Field `json:"field"`
	Progress   ProgressView     `json:"progress"`
	DraftSaved bool             `json:"draftSaved"`
}

// SubmitResult 提交成功后的报告
type SubmitResult struct {
	ReportID uint `json:"reportId"`
	Rows     int  `json:"rows"`
}

// Upload 文件题上传的原始文件
type Upload struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

type InspectionService struct {
	QuestionRepo   *repository.QuestionRepository
	ReportRepo     *repository.InspectionRepository
	SiteRepo       *repository.SiteRepository
	UserRepo       *repository.UserRepository
	AttachmentRepo *repository.AttachmentRepository
	Drafts         inspection.DraftStore
	Storage        *StorageService
	Cfg            *config.Config
}

func NewInspectionService(
	questionRepo *repository.QuestionRepository,
	reportRepo *repository.InspectionRepository,
	siteRepo *repository.SiteRepository,
	userRepo *repository.UserRepository,
	attachmentRepo *repository.AttachmentRepository,
	drafts inspection.DraftStore,
	storage *StorageService,
	cfg *config.Config,
) *InspectionService {
	return &InspectionService{
		QuestionRepo:   questionRepo,
		ReportRepo:     reportRepo,
		SiteRepo:       siteRepo,
		UserRepo:       userRepo,
		AttachmentRepo: attachmentRepo,
		Drafts:         drafts,
		Storage:        storage,
		Cfg:            cfg,
	}
}

func toInspectionQuestion(q model.Question) inspection.Question {
	return inspection.Question{
		ID:                 q.ID,
		Title:              q.Title,
		Text:               q.Text,
		Type:               inspection.QuestionType(q.QuestionType),
		Section:            q.Section,
		FormOrder:          q.FormOrder,
		Required:           q.IsRequired,
		Options:            q.Answers,
		SectionTitle:       q.SectionTitle,
		SectionDescription: q.SectionDescription,
		SectionHeader:      q.SectionHeader,
	}
}

// Layout 获取并整理题目
func (s *InspectionService) Layout(ctx context.Context) (*inspection.Layout, error) {
	questions, err := s.QuestionRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	converted := make([]inspection.Question, 0, len(questions))
	for _, q := range questions {
		converted = append(converted, toInspectionQuestion(q))
	}
	return inspection.Organize(converted), nil
}

// LayoutOrEmpty 题目获取失败时记录日志并返回空表单
func (s *InspectionService) LayoutOrEmpty(ctx context.Context) *inspection.Layout {
	layout, err := s.Layout(ctx)
	if err != nil {
		logger.Log.Error("Failed to fetch inspection questions", zap.Error(err))
		return inspection.Organize(nil)
	}
	return layout
}

func (s *InspectionService) site(ctx context.Context, siteID uint) (*model.Site, error) {
	site, err := s.SiteRepo.FindByID(ctx, siteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSiteNotFound
	}
	return site, err
}

// mount 构建表单并读取草稿。草稿读取失败时表单仍可用，但修改不会被保存
func (s *InspectionService) mount(ctx context.Context, layout *inspection.Layout, userID, siteID uint) *inspection.Form {
	form := inspection.NewForm(layout, inspection.DraftKey{UserID: userID, SiteID: siteID}, s.Drafts)
	if err := form.LoadDraft(ctx); err != nil {
		logger.Log.Warn("Failed to load inspection draft",
			zap.Uint("userID", userID),
			zap.Uint("siteID", siteID),
			zap.Error(err),
		)
	}
	return form
}

func (s *InspectionService) view(site *model.Site, form *inspection.Form) *FormView {
	sections := form.Layout().Sections
	if sections == nil {
		sections = []inspection.Section{}
	}
	return &FormView{
		Site:        site,
		Sections:    sections,
		Fields:      form.Fields(),
		Responses:   form.Responses(),
		Progress:    newProgressView(form.Progress()),
		DraftLoaded: form.DraftLoaded(),
	}
}

func (s *InspectionService) GetForm(ctx context.Context, userID, siteID uint) (*FormView, error) {
	site, err := s.site(ctx, siteID)
	if err != nil {
		return nil, err
	}
	form := s.mount(ctx, s.LayoutOrEmpty(ctx), userID, siteID)
	return s.view(site, form), nil
}

func (s *InspectionService) result(form *inspection.Form, questionID uint) *ChangeResult {
	res := &ChangeResult{
		Progress:   newProgressView(form.Progress()),
		DraftSaved: form.DraftLoaded(),
	}
	for _, f := range form.Fields() {
		if f.QuestionID == questionID {
			res.Field = f
			break
		}
	}
	return res
}

// ApplyChange 修改一道题的答案并保存草稿
func (s *InspectionService) ApplyChange(ctx context.Context, userID, siteID, questionID uint, change inspection.Change) (*ChangeResult, error) {
	if _, err := s.site(ctx, siteID); err != nil {
		return nil, err
	}
	layout, err := s.Layout(ctx)
	if err != nil {
		return nil, err
	}

	form := s.mount(ctx, layout, userID, siteID)
	if _, err := form.Apply(ctx, questionID, change); err != nil {
		return nil, err
	}
	if form.DraftLoaded() {
		monitoring.DraftWrites.WithLabelValues("save").Inc()
	}
	return s.result(form, questionID), nil
}

func (s *InspectionService) ClearDraft(ctx context.Context, userID, siteID uint) error {
	form := inspection.NewForm(inspection.Organize(nil), inspection.DraftKey{UserID: userID, SiteID: siteID}, s.Drafts)
	if err := form.ClearDraft(ctx); err != nil {
		return err
	}
	monitoring.DraftWrites.WithLabelValues("delete").Inc()
	return nil
}

func (s *InspectionService) maxUploadBytes() int64 {
	if s.Cfg.Storage.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return s.Cfg.Storage.MaxUploadMB << 20
}

// UploadFile 保存文件并把文件地址追加到文件题的答案中，视频会探测时长和分辨率
func (s *InspectionService) UploadFile(ctx context.Context, userID, siteID, questionID uint, up Upload) (*model.Attachment, *ChangeResult, error) {
	if up.Size > s.maxUploadBytes() {
		return nil, nil, util.ErrFileTooLarge
	}
	if _, err := s.site(ctx, siteID); err != nil {
		return nil, nil, err
	}
	layout, err := s.Layout(ctx)
	if err != nil {
		return nil, nil, err
	}
	q, ok := layout.Question(questionID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", inspection.ErrUnknownQuestion, questionID)
	}
	if q.Type != inspection.TypeFile {
		return nil, nil, ErrNotFileQuestion
	}

	tmp, err := os.CreateTemp("", "sapaa-upload-*")
	if err != nil {
		return nil, nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	written, err := io.Copy(tmp, io.LimitReader(up.Reader, s.maxUploadBytes()+1))
	if err != nil {
		return nil, nil, err
	}
	if written > s.maxUploadBytes() {
		return nil, nil, util.ErrFileTooLarge
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	contentType, err := util.DetectMimeType(tmp, util.AllowedUploadTypes)
	if err != nil {
		return nil, nil, err
	}

	attachment := &model.Attachment{
		UserID:      userID,
		SiteID:      siteID,
		QuestionID:  questionID,
		FileName:    filepath.Base(up.FileName),
		ContentType: contentType,
		Size:        written,
	}
	if util.IsVideo(contentType) && util.FFprobeAvailable() {
		if info, err := util.GetVideoInfo(tmp.Name()); err != nil {
			logger.Log.Warn("Failed to read video metadata", zap.String("file", up.FileName), zap.Error(err))
		} else {
			attachment.Duration = info.Duration
			attachment.Width = info.Width
			attachment.Height = info.Height
		}
	}

	ext := strings.ToLower(filepath.Ext(up.FileName))
	attachment.ObjectKey = path.Join("inspections", fmt.Sprint(siteID), uuid.NewString()+ext)
	url, err := s.Storage.UploadFile(ctx, attachment.ObjectKey, tmp.Name(), contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("store upload: %w", err)
	}
	attachment.URL = url

	if err := s.AttachmentRepo.Create(ctx, attachment); err != nil {
		if delErr := s.Storage.Delete(ctx, attachment.ObjectKey); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", zap.String("key", attachment.ObjectKey), zap.Error(delErr))
		}
		return nil, nil, err
	}

	form := s.mount(ctx, layout, userID, siteID)
	if _, err := form.Apply(ctx, questionID, inspection.Change{Value: &url}); err != nil {
		return nil, nil, err
	}
	return attachment, s.result(form, questionID), nil
}

func (s *InspectionService) checkSubmitter(ctx context.Context, userID uint) error {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	} else if err != nil {
		return fmt.Errorf("%w: load user: %v", ErrSubmissionFailed, err)
	}
	if user.Disabled {
		return util.ErrAccountDisabled
	}
	if user.NeedsLiabilityCheck() {
		return util.ErrLiabilityNotAccepted
	}
	return nil
}

func submitFailed(stage string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSubmissionFailed, stage, err)
}

// Submit 校验必答题后写入报告与答案记录，全部成功后才删除草稿。
// override 非空时以其替换草稿中的答案。
func (s *InspectionService) Submit(ctx context.Context, userID, siteID uint, override json.RawMessage) (res *SubmitResult, err error) {
	ctx, span := tracing.Start(ctx, "inspection.submit",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("site.id", int64(siteID)),
	)
	defer func() {
		if err != nil {
			tracing.Fail(span, err)
		}
		span.End()
	}()

	if err := s.checkSubmitter(ctx, userID); err != nil {
		if errors.Is(err, util.ErrLiabilityNotAccepted) {
			monitoring.InspectionSubmissions.WithLabelValues("liability").Inc()
		}
		return nil, err
	}
	if _, err := s.site(ctx, siteID); err != nil {
		return nil, err
	}

	layout, err := s.Layout(ctx)
	if err != nil {
		monitoring.InspectionSubmissions.WithLabelValues("failed").Inc()
		return nil, submitFailed("questions", err)
	}

	// 草稿读取失败时不能提交，否则会写入空报告并删除未读取的草稿
	form := inspection.NewForm(layout, inspection.DraftKey{UserID: userID, SiteID: siteID}, s.Drafts)
	if err := form.LoadDraft(ctx); err != nil {
		monitoring.InspectionSubmissions.WithLabelValues("failed").Inc()
		return nil, submitFailed("draft", err)
	}
	if len(override) > 0 && string(override) != "null" {
		responses, err := inspection.DecodeResponses(override, layout)
		if err == nil {
			err = layout.CheckResponses(responses)
		}
		if err != nil {
			monitoring.InspectionSubmissions.WithLabelValues("invalid").Inc()
			return nil, err
		}
		if err := form.Replace(ctx, responses); err != nil {
			logger.Log.Warn("Failed to save submitted responses as draft", zap.Error(err))
		}
	}

	if err := form.Validate(); err != nil {
		monitoring.InspectionSubmissions.WithLabelValues("incomplete").Inc()
		return nil, err
	}

	responses := form.Responses()
	routing, err := s.routing(ctx, responses)
	if err != nil {
		monitoring.InspectionSubmissions.WithLabelValues("failed").Inc()
		return nil, submitFailed("routing", err)
	}

	report := &model.InspectionReport{SiteID: siteID, UserID: userID}
	var rows []inspection.Row
	err = s.ReportRepo.Transaction(ctx, func(tx *repository.InspectionRepository) error {
		if err := tx.CreateReport(ctx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		rows = inspection.BuildRows(report.ID, responses, routing)
		if err := tx.CreateObservations(ctx, toObservations(rows)); err != nil {
			return fmt.Errorf("insert observations: %w", err)
		}
		return nil
	})
	if err != nil {
		monitoring.InspectionSubmissions.WithLabelValues("failed").Inc()
		return nil, submitFailed("persist", err)
	}

	if err := form.ClearDraft(ctx); err != nil {
		// 报告已写入，草稿残留只影响下次打开表单
		logger.Log.Warn("Failed to clear draft after submission", zap.Uint("reportID", report.ID), zap.Error(err))
	} else {
		monitoring.DraftWrites.WithLabelValues("delete").Inc()
	}

	monitoring.InspectionSubmissions.WithLabelValues("submitted").Inc()
	monitoring.ObservationRows.Add(float64(len(rows)))
	span.SetAttributes(attribute.Int64("report.id", int64(report.ID)), attribute.Int("rows", len(rows)))
	logger.Log.Info("Inspection submitted",
		zap.Uint("reportID", report.ID),
		zap.Uint("userID", userID),
		zap.Uint("siteID", siteID),
		zap.Int("rows", len(rows)),
	)
	return &SubmitResult{ReportID: report.ID, Rows: len(rows)}, nil
}

func (s *InspectionService) routing(ctx context.Context, responses inspection.Responses) (map[uint]inspection.Routing, error) {
	ids := make([]uint, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	flags, err := s.QuestionRepo.FindRouting(ctx, ids)
	if err != nil {
		return nil, err
	}

	routing := make(map[uint]inspection.Routing, len(flags))
	for _, q := range flags {
		r := inspection.Routing{Value: q.ObsValue, Comment: q.ObsComm}
		if r.Ambiguous() {
			logger.Log.Warn("Question routing is ambiguous",
				zap.Uint("questionID", q.ID),
				zap.Bool("obsValue", q.ObsValue),
				zap.Bool("obsComm", q.ObsComm),
			)
		}
		routing[q.ID] = r
	}
	return routing, nil
}

func toObservations(rows []inspection.Row) []model.Observation {
	out := make([]model.Observation, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Observation{
			ReportID:   r.ReportID,
			QuestionID: r.QuestionID,
			ObsValue:   r.Value,
			ObsComm:    r.Comment,
		})
	}
	return out
}

// GetReport 只有提交人和管理员可以查看报告
func (s *InspectionService) GetReport(ctx context.Context, viewerID uint, viewerRole model.UserRole, id uint) (*model.InspectionReport, error) {
	report, err := s.ReportRepo.FindReport(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	if report.UserID != viewerID && viewerRole != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return report, nil
}
