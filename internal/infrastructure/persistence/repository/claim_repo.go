package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"go.uber.org/zap"
)

// ClaimRepository implements port.ClaimRepository on sqlite
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{db: db, logger: logger}
}

const claimColumns = `
	id, claim_number, policy_number, claimant_name, claim_type, claim_amount,
	incident_date, description, documents, status, metadata,
	processed_by, processed_at, created_at, updated_at
`

// Create inserts a new claim row
func (r *ClaimRepository) Create(ctx context.Context, c *claim.Claim) error {
	documents, err := json.Marshal(c.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	metadata, err := encodeMetadata(c.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO claims (
			id, claim_number, policy_number, claimant_name, claim_type, claim_amount,
			incident_date, description, documents, status, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		c.ID,
		c.ClaimNumber,
		c.PolicyNumber,
		c.ClaimantName,
		c.ClaimType,
		c.ClaimAmount,
		c.IncidentDate,
		c.Description,
		string(documents),
		c.Status.String(),
		metadata,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim", zap.String("id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// GetByID retrieves a claim by ID
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ?`

	c, err := scanClaim(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get claim", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	return c, nil
}

// List retrieves a filtered, paginated page of claims, newest first
func (r *ClaimRepository) List(ctx context.Context, filter claim.ListClaimsFilter) ([]*claim.Claim, int, error) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ClaimType != "" {
		conditions = append(conditions, "claim_type = ?")
		args = append(args, filter.ClaimType)
	}
	if filter.PolicyNumber != "" {
		conditions = append(conditions, "policy_number = ?")
		args = append(args, filter.PolicyNumber)
	}
	if filter.ClaimantName != "" {
		conditions = append(conditions, "claimant_name LIKE ?")
		args = append(args, "%"+filter.ClaimantName+"%")
	}
	if filter.FromDate != "" {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.ToDate)
	}
	if filter.MinAmount > 0 {
		conditions = append(conditions, "claim_amount >= ?")
		args = append(args, filter.MinAmount)
	}
	if filter.MaxAmount > 0 {
		conditions = append(conditions, "claim_amount <= ?")
		args = append(args, filter.MaxAmount)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM claims" + where
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count claims: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := "SELECT " + claimColumns + " FROM claims" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	claims, err := collectClaims(rows)
	if err != nil {
		return nil, 0, err
	}

	return claims, total, nil
}

// UpdateStatus applies a guarded status transition. The expected-status
// predicate turns a concurrent transition into ErrStaleStatus instead of a
// silent last-writer-wins.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, upd port.StatusUpdate) error {
	query := `
		UPDATE claims
		SET status = ?, updated_at = ?, processed_by = ?, processed_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		upd.NewStatus.String(),
		upd.ProcessedAt,
		upd.ProcessedBy,
		upd.ProcessedAt,
		upd.ClaimID,
		upd.ExpectedStatus.String(),
	)
	if err != nil {
		r.logger.Error("Failed to update claim status",
			zap.String("id", upd.ClaimID),
			zap.String("status", upd.NewStatus.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update claim status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return port.ErrStaleStatus
	}

	return nil
}

// UpdateMetadata replaces the claim's metadata document
func (r *ClaimRepository) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error {
	encoded, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}

	query := `UPDATE claims SET metadata = ?, updated_at = ? WHERE id = ?`
	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query, encoded, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update claim metadata", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update claim metadata: %w", err)
	}

	return nil
}

// FindSimilar returns claims sharing policy number, type and amount created
// since the given time, excluding the claim itself
func (r *ClaimRepository) FindSimilar(ctx context.Context, policyNumber, claimType string, amount float64, since time.Time, excludeID string) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE policy_number = ? AND claim_type = ? AND claim_amount = ?
		  AND created_at >= ? AND id != ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query,
		policyNumber, claimType, amount, since, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar claims: %w", err)
	}
	defer rows.Close()

	return collectClaims(rows)
}

// FindByIncident returns claims against the policy for the same incident
// date created since the given time, excluding the claim itself
func (r *ClaimRepository) FindByIncident(ctx context.Context, policyNumber string, incidentDate time.Time, since time.Time, excludeID string) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE policy_number = ? AND date(incident_date) = date(?)
		  AND created_at >= ? AND id != ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query,
		policyNumber, incidentDate, since, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find claims by incident: %w", err)
	}
	defer rows.Close()

	return collectClaims(rows)
}

// scanner matches sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(row scanner) (*claim.Claim, error) {
	var c claim.Claim
	var status, documents string
	var description, metadata, processedBy sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.ClaimNumber,
		&c.PolicyNumber,
		&c.ClaimantName,
		&c.ClaimType,
		&c.ClaimAmount,
		&c.IncidentDate,
		&description,
		&documents,
		&status,
		&metadata,
		&processedBy,
		&processedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = workflow.State(status)
	c.Description = description.String
	c.ProcessedBy = processedBy.String
	if processedAt.Valid {
		c.ProcessedAt = &processedAt.Time
	}

	if documents != "" {
		if err := json.Unmarshal([]byte(documents), &c.Documents); err != nil {
			return nil, fmt.Errorf("failed to decode documents: %w", err)
		}
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}

	return &c, nil
}

func collectClaims(rows *sql.Rows) ([]*claim.Claim, error) {
	claims := []*claim.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func encodeMetadata(metadata map[string]any) (sql.NullString, error) {
	if metadata == nil {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}
