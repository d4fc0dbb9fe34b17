// internal/services/jobs/store.go
package jobs

import (
	"context"
	"database/sql"
	"encoding/json"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/lib/pq"
)

// Store persists job listings in PostgreSQL. Contact info is stored as a
// JSONB column.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const jobColumns = `id, title, company, location, job_type, description, salary, demographic_tags, contact_info, posted_at, updated_at`

// List returns a page of listings, newest first
func (s *Store) List(ctx context.Context, limit, offset int) ([]models.JobListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM job_listings
		ORDER BY posted_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list job listings", err)
	}
	defer rows.Close()

	var result []models.JobListing
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan job listing", err)
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate job listings", err)
	}

	return result, nil
}

// Get returns a single listing by ID
func (s *Store) Get(ctx context.Context, jobID string) (*models.JobListing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM job_listings
		WHERE id = $1`, jobID)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get job listing", err)
	}

	return &job, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (models.JobListing, error) {
	var job models.JobListing
	var contactRaw []byte
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.JobType,
		&job.Description, &job.Salary, pq.Array(&job.DemographicTags),
		&contactRaw, &job.PostedAt, &job.UpdatedAt,
	)
	if err != nil {
		return job, err
	}

	if len(contactRaw) > 0 {
		if err := json.Unmarshal(contactRaw, &job.ContactInfo); err != nil {
			return job, err
		}
	}

	return job, nil
}
