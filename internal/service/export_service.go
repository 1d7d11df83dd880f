package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/export"
	"github.com/cardwise/cardwise-api/pkg/storage"
)

type exportQuestionSource interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionWithOwner, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	Count        int
	ExpiresAt    time.Time
}

// ExportService renders the question pool to CSV or PDF, persists the file
// and hands out signed download URLs.
type ExportService struct {
	questions exportQuestionSource
	storage   fileStorage
	renderers map[models.ExportFormat]tableRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(questions exportQuestionSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		questions: questions,
		storage:   files,
		renderers: map[models.ExportFormat]tableRenderer{
			models.ExportFormatCSV: export.NewCSVWriter(),
			models.ExportFormatPDF: export.NewPDFWriter(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
	}
}

// Generate renders the requested export and stores it.
func (s *ExportService) Generate(ctx context.Context, req models.ExportQuestionsRequest) (*ExportResult, error) {
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status filter")
	}

	table, count, err := s.buildTable(ctx, req.Status)
	if err != nil {
		return nil, err
	}

	renderer, ok := s.renderers[req.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("questions_%s.%s", time.Now().UTC().Format("20060102_150405"), req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/admin/exports/%s", prefix, token),
		Format:       req.Format,
		Count:        count,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token and returns the stored file path.
func (s *ExportService) ParseToken(token string) (relPath string, err error) {
	_, relPath, _, err = s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	return relPath, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than the configured TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) buildTable(ctx context.Context, status *models.QuestionStatus) (export.Table, int, error) {
	filter := models.QuestionFilter{Status: status, Page: 1, PageSize: exportPageSize}

	table := export.Table{
		Title:       "CardWise Questions",
		GeneratedAt: time.Now().UTC(),
		Columns: []export.Column{
			{Title: "Question", Weight: 3},
			{Title: "Answer", Weight: 3},
			{Title: "Status", Weight: 1},
			{Title: "Contributor", Weight: 1.5},
			{Title: "Created", Weight: 1.5},
		},
	}
	for {
		questions, total, err := s.questions.List(ctx, filter)
		if err != nil {
			return export.Table{}, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions for export")
		}
		for _, q := range questions {
			table.Rows = append(table.Rows, []string{
				q.Question.Question,
				q.Answer,
				string(q.Status),
				q.Username,
				q.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(table.Rows) >= total || len(questions) == 0 {
			return table, total, nil
		}
		filter.Page++
	}
}

const exportPageSize = 100
