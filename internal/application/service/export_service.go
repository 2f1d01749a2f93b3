package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// exportPageSize bounds how many claims one export fetches
const exportPageSize = 1000

// ExportResult describes a finished export
type ExportResult struct {
	FilePath   string `json:"file_path"`
	ClaimCount int    `json:"claim_count"`
}

// ExportService writes filtered claim lists to Excel reports
type ExportService struct {
	claims    port.ClaimRepository
	outputDir string
	logger    *zap.Logger
}

// NewExportService creates an export service writing into outputDir
func NewExportService(claims port.ClaimRepository, outputDir string, logger *zap.Logger) *ExportService {
	return &ExportService{
		claims:    claims,
		outputDir: outputDir,
		logger:    logger,
	}
}

// ExportClaims writes the claims matching the filter to an .xlsx report and
// returns its path
func (s *ExportService) ExportClaims(ctx context.Context, filter claim.ListClaimsFilter) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = exportPageSize

	claims, _, err := s.claims.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Claims"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Claim Number", "Policy Number", "Claimant", "Type",
		"Amount", "Incident Date", "Status", "Created At",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, c := range claims {
		values := []any{
			c.ClaimNumber,
			c.PolicyNumber,
			c.ClaimantName,
			c.ClaimType,
			c.ClaimAmount,
			c.IncidentDate.Format("2006-01-02"),
			c.Status.String(),
			c.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write claim row: %w", err)
			}
		}
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	outputPath := filepath.Join(s.outputDir,
		fmt.Sprintf("claims_export_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(outputPath); err != nil {
		return nil, fmt.Errorf("failed to save export file: %w", err)
	}

	s.logger.Info("Exported claims",
		zap.String("path", outputPath),
		zap.Int("count", len(claims)))

	return &ExportResult{FilePath: outputPath, ClaimCount: len(claims)}, nil
}
