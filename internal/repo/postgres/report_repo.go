package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, report model.Report) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(report.Reason) == "" {
		return model.Report{}, fmt.Errorf("report reason is required")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO reports (reference, listing_id, reporter_id, reason, details, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 'OPEN', NOW(), NOW())
RETURNING id, status, created_at, updated_at
`, report.Reference, report.ListingID, report.ReporterID, strings.TrimSpace(report.Reason), strings.TrimSpace(report.Details)).
		Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}

	return report, nil
}

func (r *ReportRepo) Get(ctx context.Context, id int64) (model.Report, error) {
	if r.pool == nil {
		return model.Report{}, fmt.Errorf("postgres pool is nil")
	}

	var report model.Report
	err := r.pool.QueryRow(ctx, `
SELECT r.id, r.reference, r.listing_id, COALESCE(l.title, ''), r.reporter_id, r.reason, COALESCE(r.details, ''), r.status, r.created_at, r.updated_at
FROM reports r
LEFT JOIN listings l ON l.id = r.listing_id
WHERE r.id = $1
`, id).
		Scan(&report.ID, &report.Reference, &report.ListingID, &report.ListingTitle, &report.ReporterID, &report.Reason, &report.Details, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, ErrReportNotFound
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}

	return report, nil
}

func (r *ReportRepo) List(ctx context.Context, status enums.ReportStatus, page, size int) ([]model.Report, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}
	if size <= 0 {
		size = 20
	}

	where := ""
	args := []any{}
	if status != "" {
		where = "\nWHERE r.status = $1"
		args = append(args, string(status))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM reports r` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query := `
SELECT r.id, r.reference, r.listing_id, COALESCE(l.title, ''), r.reporter_id, r.reason, COALESCE(r.details, ''), r.status, r.created_at, r.updated_at
FROM reports r
LEFT JOIN listings l ON l.id = r.listing_id` + where + fmt.Sprintf(`
ORDER BY r.created_at DESC
LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var rep model.Report
		if err := rows.Scan(&rep.ID, &rep.Reference, &rep.ListingID, &rep.ListingTitle, &rep.ReporterID, &rep.Reason, &rep.Details, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan report row: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate report rows: %w", err)
	}

	return reports, total, nil
}

func (r *ReportRepo) SetStatus(ctx context.Context, id int64, status enums.ReportStatus) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE reports SET status = $2, updated_at = NOW()
WHERE id = $1
`, id, string(status))
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

func (r *ReportRepo) CountByStatus(ctx context.Context, status enums.ReportStatus) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reports by status: %w", err)
	}

	return count, nil
}
