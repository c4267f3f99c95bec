package postgres

import (
	"context"
	"database/sql"

	"github.com/ishaan2692/matchify/internal/model"
	"github.com/ishaan2692/matchify/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record including
// the database-assigned seq.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO resume_documents (id, session_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, session_id, seq, filename, storage_path, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.SessionID,
		doc.Filename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.SessionID,
		&out.Seq,
		&out.Filename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, session_id, seq, filename, storage_path, size, content_type, created_at
		FROM resume_documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.SessionID,
		&d.Seq,
		&d.Filename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListBySession returns one session's documents in upload order using
// LIMIT/OFFSET pagination, plus the total count for that session.
func (r *DocumentPostgres) ListBySession(ctx context.Context, sessionID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM resume_documents WHERE session_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, sessionID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, session_id, seq, filename, storage_path, size, content_type, created_at
		FROM resume_documents
		WHERE session_id = $1
		ORDER BY seq ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, sessionID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// AllBySession returns every document of a session in upload order.
func (r *DocumentPostgres) AllBySession(ctx context.Context, sessionID string) ([]model.Document, error) {
	const q = `
		SELECT id, session_id, seq, filename, storage_path, size, content_type, created_at
		FROM resume_documents
		WHERE session_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM resume_documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected to keep behavior simple per requirement (no business logic).
	_, _ = res.RowsAffected()
	return nil
}

// DeleteBySession removes all rows owned by a session.
func (r *DocumentPostgres) DeleteBySession(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM resume_documents WHERE session_id = $1`
	_, err := r.db.ExecContext(ctx, q, sessionID)
	return err
}

func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.SessionID,
			&d.Seq,
			&d.Filename,
			&d.StoragePath,
			&d.Size,
			&d.ContentType,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
