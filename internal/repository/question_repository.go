package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cardwise/cardwise-api/internal/models"
)

// QuestionRepository provides database access for flashcard questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionOwnerColumns = `q.id, q.question, q.answer, q.status, q.user_id, q.created_at, q.updated_at, COALESCE(u.username, 'Unknown') AS username, COALESCE(u.email, '') AS user_email`

// FindByID returns a question by identifier.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	const query = `SELECT id, question, answer, status, user_id, created_at, updated_at FROM questions WHERE id = $1 LIMIT 1`
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return &question, nil
}

// List returns questions joined with their owner, filtered and paginated.
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionWithOwner, int, error) {
	baseQuery := `FROM questions q LEFT JOIN users u ON u.id = q.user_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("q.user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(q.question) LIKE $%d OR LOWER(q.answer) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"question":   true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY q.%s %s LIMIT %d OFFSET %d", questionOwnerColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var questions []models.QuestionWithOwner
	if err := r.db.SelectContext(ctx, &questions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	return questions, total, nil
}

// ListActive returns every active question, newest first. Used by the
// public game view.
func (r *QuestionRepository) ListActive(ctx context.Context) ([]models.Question, error) {
	const query = `SELECT id, question, answer, status, user_id, created_at, updated_at FROM questions WHERE status = $1 ORDER BY created_at DESC`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, models.QuestionStatusActive); err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	return questions, nil
}

// CountByUserAndStatus counts a user's questions in a given status.
func (r *QuestionRepository) CountByUserAndStatus(ctx context.Context, userID string, status models.QuestionStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM questions WHERE user_id = $1 AND status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, status); err != nil {
		return 0, fmt.Errorf("count questions by user: %w", err)
	}
	return count, nil
}

// Create inserts a batch of questions. When ownerID is non-nil the owner's
// lifetime questions_added counter is incremented by the batch size in the
// same transaction, so the insert and the counter cannot diverge on crash.
func (r *QuestionRepository) Create(ctx context.Context, questions []models.Question, ownerID *string) error {
	if len(questions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].UserID = ownerID
		if questions[i].CreatedAt.IsZero() {
			questions[i].CreatedAt = now
		}
		questions[i].UpdatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create questions: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO questions (id, question, answer, status, user_id, created_at, updated_at) VALUES (:id, :question, :answer, :status, :user_id, :created_at, :updated_at)`
	for i := range questions {
		if _, err := tx.NamedExecContext(ctx, insert, &questions[i]); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}

	if ownerID != nil {
		const bump = `UPDATE users SET questions_added = questions_added + $2, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, bump, *ownerID, len(questions), now); err != nil {
			return fmt.Errorf("increment questions_added: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create questions: %w", err)
	}
	return nil
}

// Update persists question text, answer and status changes.
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	question.UpdatedAt = time.Now().UTC()

	const query = `UPDATE questions SET question = :question, answer = :answer, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, question)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a question's moderation state.
func (r *QuestionRepository) UpdateStatus(ctx context.Context, id string, status models.QuestionStatus) error {
	const query = `UPDATE questions SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update question status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a question. The owner's questions_added counter keeps its
// lifetime semantics and is deliberately not decremented.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
