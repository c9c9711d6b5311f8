package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
)

const grievanceColumns = `id, registration_id, hostel_name, title, description, category, images, status, created_at, updated_at`

// GrievanceRepository manages persistence for grievance tickets.
type GrievanceRepository struct {
	db *sqlx.DB
}

// NewGrievanceRepository constructs a GrievanceRepository.
func NewGrievanceRepository(db *sqlx.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

// Create inserts a new grievance record.
func (r *GrievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	if grievance.ID == "" {
		grievance.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grievance.CreatedAt.IsZero() {
		grievance.CreatedAt = now
	}
	grievance.UpdatedAt = now
	if grievance.Status == "" {
		grievance.Status = models.StatusPending
	}
	if grievance.Category == "" {
		grievance.Category = models.CategoryOther
	}
	if grievance.Images == nil {
		grievance.Images = pq.StringArray{}
	}
	const query = `INSERT INTO grievances (id, registration_id, hostel_name, title, description, category, images, status, created_at, updated_at)
        VALUES (:id, :registration_id, :hostel_name, :title, :description, :category, :images, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grievance); err != nil {
		return fmt.Errorf("create grievance: %w", err)
	}
	return nil
}

// FindByID fetches a grievance by its identifier.
func (r *GrievanceRepository) FindByID(ctx context.Context, id string) (*models.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE id = $1 LIMIT 1`, grievanceColumns)
	var grievance models.Grievance
	if err := r.db.GetContext(ctx, &grievance, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find grievance by id: %w", err)
	}
	return &grievance, nil
}

// ListByRegistrationID returns all grievances filed by the given student,
// newest first.
func (r *GrievanceRepository) ListByRegistrationID(ctx context.Context, registrationID string) ([]models.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE registration_id = $1 ORDER BY created_at DESC`, grievanceColumns)
	grievances := []models.Grievance{}
	if err := r.db.SelectContext(ctx, &grievances, query, registrationID); err != nil {
		return nil, fmt.Errorf("list grievances by registration id: %w", err)
	}
	return grievances, nil
}

// ListByHostel returns all grievances filed against the given hostel,
// newest first.
func (r *GrievanceRepository) ListByHostel(ctx context.Context, hostelName string) ([]models.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE hostel_name = $1 ORDER BY created_at DESC`, grievanceColumns)
	grievances := []models.Grievance{}
	if err := r.db.SelectContext(ctx, &grievances, query, hostelName); err != nil {
		return nil, fmt.Errorf("list grievances by hostel: %w", err)
	}
	return grievances, nil
}

// UpdateStatus transitions a grievance's status and returns the updated
// record. sql.ErrNoRows surfaces when the id does not resolve.
func (r *GrievanceRepository) UpdateStatus(ctx context.Context, id string, status models.GrievanceStatus) (*models.Grievance, error) {
	query := fmt.Sprintf(`UPDATE grievances SET status = $2, updated_at = $3 WHERE id = $1 RETURNING %s`, grievanceColumns)
	var grievance models.Grievance
	if err := r.db.GetContext(ctx, &grievance, query, id, status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update grievance status: %w", err)
	}
	return &grievance, nil
}
