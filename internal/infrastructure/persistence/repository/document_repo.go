package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"go.uber.org/zap"
)

// DocumentRepository implements port.DocumentRepository on sqlite
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// GetByClaimID retrieves all documents attached to a claim
func (r *DocumentRepository) GetByClaimID(ctx context.Context, claimID string) ([]*claim.Document, error) {
	query := `
		SELECT id, claim_id, name, category_id, status, uploaded_at
		FROM documents
		WHERE claim_id = ?
		ORDER BY uploaded_at
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get documents", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	documents := []*claim.Document{}
	for rows.Next() {
		var d claim.Document
		var categoryID sql.NullString
		if err := rows.Scan(&d.ID, &d.ClaimID, &d.Name, &categoryID, &d.Status, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.CategoryID = categoryID.String
		documents = append(documents, &d)
	}

	return documents, rows.Err()
}

// CountUploadedSince counts documents uploaded for the claim since the given time
func (r *DocumentRepository) CountUploadedSince(ctx context.Context, claimID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE claim_id = ? AND uploaded_at > ?`

	var count int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, claimID, since).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count documents", zap.String("claim_id", claimID), zap.Error(err))
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

// ListRequiredCategories returns the document categories required for claims
func (r *DocumentRepository) ListRequiredCategories(ctx context.Context) ([]*claim.DocumentCategory, error) {
	query := `
		SELECT id, name, required_for_claims
		FROM document_categories
		WHERE required_for_claims = 1
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list document categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list document categories: %w", err)
	}
	defer rows.Close()

	categories := []*claim.DocumentCategory{}
	for rows.Next() {
		var c claim.DocumentCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.RequiredForClaims); err != nil {
			return nil, fmt.Errorf("failed to scan document category: %w", err)
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}
