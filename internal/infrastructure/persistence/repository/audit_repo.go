package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditTrailRepository implements port.AuditTrailRepository on sqlite
type AuditTrailRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditTrailRepository creates a new audit trail repository
func NewAuditTrailRepository(db *sql.DB, logger *zap.Logger) port.AuditTrailRepository {
	return &AuditTrailRepository{db: db, logger: logger}
}

// Create inserts one audit trail entry
func (r *AuditTrailRepository) Create(ctx context.Context, entry *claim.AuditTrailEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode audit changes: %w", err)
	}

	query := `
		INSERT INTO audit_trail (id, claim_id, action, actor_id, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.ClaimID,
		entry.Action,
		entry.ActorID,
		string(changes),
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create audit entry",
			zap.String("claim_id", entry.ClaimID),
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// GetByClaimID retrieves the audit trail for a claim in chronological order
func (r *AuditTrailRepository) GetByClaimID(ctx context.Context, claimID string) ([]*claim.AuditTrailEntry, error) {
	query := `
		SELECT id, claim_id, action, actor_id, changes, created_at
		FROM audit_trail
		WHERE claim_id = ?
		ORDER BY created_at
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get audit trail", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get audit trail: %w", err)
	}
	defer rows.Close()

	entries := []*claim.AuditTrailEntry{}
	for rows.Next() {
		var entry claim.AuditTrailEntry
		var changes sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ClaimID, &entry.Action, &entry.ActorID, &changes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if changes.Valid && changes.String != "" {
			if err := json.Unmarshal([]byte(changes.String), &entry.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode audit changes: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
