package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/convodocs/internal/domain"
)

// DocumentRepository encapsulates document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	Update(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository instantiates the postgres-backed repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id, title, content, team_id, author_id, author_name, tags, status, created_at, updated_at, published_at`

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (id, title, content, team_id, author_id, author_name, tags, status, created_at, updated_at, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.TeamID,
		doc.AuthorID,
		doc.AuthorName,
		doc.Tags,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.PublishedAt,
	)
	return err
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	const query = `
        UPDATE documents SET title=$1, content=$2, team_id=$3, tags=$4, status=$5, updated_at=$6, published_at=$7
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.TeamID,
		doc.Tags,
		doc.Status,
		doc.UpdatedAt,
		doc.PublishedAt,
		doc.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id=$1`
	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("team_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM documents WHERE %s ORDER BY position`,
		documentColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *doc)
	}
	return result, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.TeamID,
		&doc.AuthorID,
		&doc.AuthorName,
		&doc.Tags,
		&doc.Status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}
