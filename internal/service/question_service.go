package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/session"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
)

// GameQuestionsCacheKey is the Redis key holding the public question list.
const GameQuestionsCacheKey = "game:questions"

type questionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionWithOwner, int, error)
	ListActive(ctx context.Context) ([]models.Question, error)
	Create(ctx context.Context, questions []models.Question, ownerID *string) error
	Update(ctx context.Context, question *models.Question) error
	UpdateStatus(ctx context.Context, id string, status models.QuestionStatus) error
	Delete(ctx context.Context, id string) error
}

type questionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// QuestionService implements question contribution, moderation and the
// public game feed.
type QuestionService struct {
	repo      questionRepository
	cache     questionCache
	metrics   *MetricsService
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(repo questionRepository, cache questionCache, metrics *MetricsService, audit *AuditService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &QuestionService{repo: repo, cache: cache, metrics: metrics, audit: audit, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns questions with owner info for the admin back office.
func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionWithOwner, *models.Pagination, error) {
	questions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return questions, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ListMine returns the caller's own questions.
func (s *QuestionService) ListMine(ctx context.Context, userID string, filter models.QuestionFilter) ([]models.QuestionWithOwner, *models.Pagination, error) {
	filter.UserID = &userID
	return s.List(ctx, filter)
}

// Game returns the active question pool served to players, cached in Redis.
func (s *QuestionService) Game(ctx context.Context) ([]models.Question, error) {
	var cached []models.Question
	start := time.Now()
	err := s.cache.Get(ctx, GameQuestionsCacheKey, &cached)
	if err == nil {
		s.observeCache(true, time.Since(start))
		return cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("game cache lookup failed", zap.Error(err))
	}
	s.observeCache(false, time.Since(start))

	questions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeStart := time.Now()
	if err := s.cache.Set(ctx, GameQuestionsCacheKey, questions, s.cacheTTL); err != nil {
		s.logger.Warn("game cache write failed", zap.Error(err))
	} else if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(writeStart))
	}

	return questions, nil
}

// Create adds questions for the given identity. Non-administrators always
// produce pending questions, whatever status the request carries.
func (s *QuestionService) Create(ctx context.Context, identity *session.Identity, req models.CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}

	status, ownerID, err := s.resolveCreate(identity, req.Status)
	if err != nil {
		return nil, err
	}

	question := models.Question{
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Status:   status,
		UserID:   ownerID,
	}
	if err := s.repo.Create(ctx, []models.Question{question}, ownerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	s.invalidateGameCache(ctx)

	return &question, nil
}

// BulkImport parses newline-separated "question;answer" pairs and stores
// them in one transaction. The answer keeps any further semicolons.
func (s *QuestionService) BulkImport(ctx context.Context, identity *session.Identity, req models.BulkImportRequest) (*models.BulkImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	status, ownerID, err := s.resolveCreate(identity, "")
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	var skipped []string
	for _, line := range strings.Split(req.Payload, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ";", 2)
		if len(parts) != 2 {
			skipped = append(skipped, line)
			continue
		}
		q := strings.TrimSpace(parts[0])
		a := strings.TrimSpace(parts[1])
		if q == "" || a == "" {
			skipped = append(skipped, line)
			continue
		}
		questions = append(questions, models.Question{Question: q, Answer: a, Status: status, UserID: ownerID})
	}

	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no importable lines found")
	}

	if err := s.repo.Create(ctx, questions, ownerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import questions")
	}
	s.invalidateGameCache(ctx)

	return &models.BulkImportResult{Imported: len(questions), Skipped: skipped}, nil
}

// Update edits a question. Regular users may only touch their own rows and
// cannot change the moderation status.
func (s *QuestionService) Update(ctx context.Context, identity *session.Identity, id string, req models.UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}

	question, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(identity, question); err != nil {
		return nil, err
	}

	question.Question = strings.TrimSpace(req.Question)
	question.Answer = strings.TrimSpace(req.Answer)
	if identity != nil && identity.Admin && req.Status != "" {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid question status")
		}
		question.Status = req.Status
	}

	if err := s.repo.Update(ctx, question); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update question")
	}
	s.invalidateGameCache(ctx)

	return question, nil
}

// Delete removes a question. Ownership rules match Update.
func (s *QuestionService) Delete(ctx context.Context, identity *session.Identity, id string) error {
	question, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(identity, question); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	s.invalidateGameCache(ctx)
	return nil
}

// Approve moves a pending question into the active pool.
func (s *QuestionService) Approve(ctx context.Context, actorID, id string) (*models.Question, error) {
	return s.moderate(ctx, actorID, id, models.QuestionStatusActive, models.AuditActionQuestionApprove)
}

// Reject marks a pending question inactive. The row is kept so the
// contributor can see the outcome.
func (s *QuestionService) Reject(ctx context.Context, actorID, id string) (*models.Question, error) {
	return s.moderate(ctx, actorID, id, models.QuestionStatusInactive, models.AuditActionQuestionReject)
}

func (s *QuestionService) moderate(ctx context.Context, actorID, id string, to models.QuestionStatus, action string) (*models.Question, error) {
	question, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if question.Status != models.QuestionStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "question is not pending review")
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update question status")
	}
	question.Status = to
	s.invalidateGameCache(ctx)

	if s.audit != nil {
		s.audit.Record(models.AuditLog{
			SubjectID:  &actorID,
			Action:     action,
			Resource:   "question",
			ResourceID: &id,
		})
	}

	return question, nil
}

func (s *QuestionService) get(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch question")
	}
	return question, nil
}

func (s *QuestionService) resolveCreate(identity *session.Identity, requested models.QuestionStatus) (models.QuestionStatus, *string, error) {
	if identity == nil {
		return "", nil, appErrors.Clone(appErrors.ErrUnauthorized, "session required")
	}

	if identity.Admin {
		status := requested
		if status == "" {
			status = models.QuestionStatusActive
		}
		if !status.Valid() {
			return "", nil, appErrors.Clone(appErrors.ErrValidation, "invalid question status")
		}
		return status, nil, nil
	}

	if identity.User == nil {
		return "", nil, appErrors.Clone(appErrors.ErrUnauthorized, "session required")
	}
	userID := identity.User.ID
	return models.QuestionStatusPending, &userID, nil
}

func (s *QuestionService) authorize(identity *session.Identity, question *models.Question) error {
	if identity == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session required")
	}
	if identity.Admin {
		return nil
	}
	if identity.User == nil || question.UserID == nil || *question.UserID != identity.User.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "not the question owner")
	}
	return nil
}

func (s *QuestionService) invalidateGameCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, GameQuestionsCacheKey); err != nil {
		s.logger.Warn("game cache invalidation failed", zap.Error(err))
	}
}

func (s *QuestionService) observeCache(hit bool, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCacheOperation(hit, duration)
}
