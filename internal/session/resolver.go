package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
)

// AdminSubject is the reserved subject identifier for the administrator.
// It is never looked up in the user store.
const AdminSubject = "admin_user"

// ErrSubjectNotFound marks a session whose subject no longer exists in the
// user store. Callers must treat it as an invalid session and force
// re-authentication.
var ErrSubjectNotFound = errors.New("session subject not found")

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Identity is the resolved role of a session subject.
type Identity struct {
	SubjectID string
	Admin     bool
	User      *models.User
}

// Resolver maps session subject identifiers onto roles.
type Resolver struct {
	users userReader
}

// NewResolver constructs a resolver backed by the user store.
func NewResolver(users userReader) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the identity behind a subject ID. The reserved
// administrator subject short-circuits without touching the store; any other
// subject is a user lookup, where a missing row means the session is stale.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) (*Identity, error) {
	if subjectID == AdminSubject {
		return &Identity{SubjectID: subjectID, Admin: true}, nil
	}

	user, err := r.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session subject")
	}
	return &Identity{SubjectID: subjectID, User: user}, nil
}
