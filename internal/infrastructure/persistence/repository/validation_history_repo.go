package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationHistoryRepository implements port.ValidationHistoryRepository on sqlite
type ValidationHistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewValidationHistoryRepository creates a new validation history repository
func NewValidationHistoryRepository(db *sql.DB, logger *zap.Logger) port.ValidationHistoryRepository {
	return &ValidationHistoryRepository{db: db, logger: logger}
}

// Create inserts one validation run record
func (r *ValidationHistoryRepository) Create(ctx context.Context, entry *validation.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	errs, err := json.Marshal(entry.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode validation errors: %w", err)
	}
	warnings, err := json.Marshal(entry.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode validation warnings: %w", err)
	}

	query := `
		INSERT INTO validation_history (
			id, claim_id, validated_by, validated_at, is_valid, errors, warnings, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.ClaimID,
		entry.ValidatedBy,
		entry.ValidatedAt,
		entry.IsValid,
		string(errs),
		string(warnings),
		entry.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create validation history entry",
			zap.String("claim_id", entry.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to create validation history entry: %w", err)
	}

	return nil
}

// GetByClaimID retrieves all validation runs for a claim, newest first
func (r *ValidationHistoryRepository) GetByClaimID(ctx context.Context, claimID string) ([]*validation.HistoryEntry, error) {
	query := `
		SELECT id, claim_id, validated_by, validated_at, is_valid, errors, warnings, status
		FROM validation_history
		WHERE claim_id = ?
		ORDER BY validated_at DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to get validation history", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get validation history: %w", err)
	}
	defer rows.Close()

	entries := []*validation.HistoryEntry{}
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetLatestByClaimID retrieves the most recent validation run for a claim
func (r *ValidationHistoryRepository) GetLatestByClaimID(ctx context.Context, claimID string) (*validation.HistoryEntry, error) {
	query := `
		SELECT id, claim_id, validated_by, validated_at, is_valid, errors, warnings, status
		FROM validation_history
		WHERE claim_id = ?
		ORDER BY validated_at DESC
		LIMIT 1
	`

	entry, err := scanHistoryEntry(getExecutor(ctx, r.db).QueryRowContext(ctx, query, claimID))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get latest validation entry", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get latest validation entry: %w", err)
	}

	return entry, nil
}

func scanHistoryEntry(row scanner) (*validation.HistoryEntry, error) {
	var entry validation.HistoryEntry
	var errs, warnings string

	err := row.Scan(
		&entry.ID,
		&entry.ClaimID,
		&entry.ValidatedBy,
		&entry.ValidatedAt,
		&entry.IsValid,
		&errs,
		&warnings,
		&entry.Status,
	)
	if err != nil {
		return nil, err
	}

	if errs != "" {
		if err := json.Unmarshal([]byte(errs), &entry.Errors); err != nil {
			return nil, fmt.Errorf("failed to decode validation errors: %w", err)
		}
	}
	if warnings != "" {
		if err := json.Unmarshal([]byte(warnings), &entry.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode validation warnings: %w", err)
		}
	}

	return &entry, nil
}
