package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// StatusCount is an aggregate row for analytics.
type StatusCount struct {
	Status domain.Status
	Count  int64
}

// CategoryCount is an aggregate row for analytics.
type CategoryCount struct {
	Category domain.Category
	Count    int64
}

// ComplaintRepository encapsulates complaint persistence. UpdateLifecycle and
// SetFeedback take the caller's loaded UpdatedAt as an optimistic version
// token and return pgx.ErrNoRows when it is stale.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	UpdateLifecycle(ctx context.Context, complaint *domain.Complaint, expectedVersion time.Time) error
	SetFeedback(ctx context.Context, complaint *domain.Complaint, expectedVersion time.Time) error
	ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]domain.Complaint, error)
	ListByAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Complaint, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, external_key, submitter_id, assignee_id, title, description,
               category, status, resolution_notes, feedback_rating, feedback_comment,
               created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (external_key, submitter_id, title, description, category, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ExternalKey,
		complaint.SubmitterID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.ExternalKey,
		&complaint.SubmitterID,
		&complaint.AssigneeID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Status,
		&complaint.ResolutionNotes,
		&complaint.FeedbackRating,
		&complaint.FeedbackComment,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// UpdateLifecycle persists a status transition. The WHERE clause carries the
// expected version so a concurrent writer loses with pgx.ErrNoRows instead of
// silently clobbering.
func (r *complaintRepository) UpdateLifecycle(ctx context.Context, complaint *domain.Complaint, expectedVersion time.Time) error {
	const query = `
        UPDATE complaints SET status=$1, assignee_id=$2, resolution_notes=$3, updated_at=NOW()
        WHERE id=$4 AND updated_at=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		complaint.Status,
		complaint.AssigneeID,
		complaint.ResolutionNotes,
		complaint.ID,
		expectedVersion,
	).Scan(&complaint.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *complaintRepository) SetFeedback(ctx context.Context, complaint *domain.Complaint, expectedVersion time.Time) error {
	const query = `
        UPDATE complaints SET feedback_rating=$1, feedback_comment=$2, updated_at=NOW()
        WHERE id=$3 AND updated_at=$4 AND feedback_rating IS NULL
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.FeedbackRating,
		complaint.FeedbackComment,
		complaint.ID,
		expectedVersion,
	).Scan(&complaint.UpdatedAt)
}

func (r *complaintRepository) ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints WHERE submitter_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, submitterID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *complaintRepository) ListByAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints WHERE assignee_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, assigneeID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *complaintRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *complaintRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category, COUNT(*) FROM complaints GROUP BY category`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var row CategoryCount
		if err := rows.Scan(&row.Category, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.ExternalKey,
			&complaint.SubmitterID,
			&complaint.AssigneeID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.Status,
			&complaint.ResolutionNotes,
			&complaint.FeedbackRating,
			&complaint.FeedbackComment,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
