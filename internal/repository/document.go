package repository

import (
	"context"

	"github.com/ishaan2692/matchify/internal/model"
)

// DocumentRepository defines data access for session-owned resume documents
// using SQL queries only. No business logic here, strictly persistence.
type DocumentRepository interface {
	// Create inserts a new document record. The caller provides ID and
	// CreatedAt; seq is assigned by the database and returned on the stored
	// document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID regardless of owning session.
	// Ownership checks belong to the service layer.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListBySession returns one session's documents in upload order plus the
	// session's total row count.
	ListBySession(ctx context.Context, sessionID string, pq PageQuery) (*PageResult[model.Document], error)

	// AllBySession returns every document of a session in upload order.
	AllBySession(ctx context.Context, sessionID string) ([]model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// DeleteBySession removes all rows owned by a session.
	DeleteBySession(ctx context.Context, sessionID string) error
}
