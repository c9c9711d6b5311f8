package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
)

// AdminRepository manages persistence for hostel staff records.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByStaffID fetches an admin by their staff id.
func (r *AdminRepository) FindByStaffID(ctx context.Context, staffID string) (*models.Admin, error) {
	const query = `SELECT id, staff_id, name, designation, hostel_name, personal_email, phone_number, password_hash, created_at, updated_at FROM admins WHERE staff_id = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, staffID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by staff id: %w", err)
	}
	return &admin, nil
}

// ExistsByStaffID checks if an admin with the given staff id exists.
func (r *AdminRepository) ExistsByStaffID(ctx context.Context, staffID string) (bool, error) {
	const query = `SELECT 1 FROM admins WHERE staff_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, staffID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check staff id: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks if an admin with the given personal email exists.
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM admins WHERE personal_email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return true, nil
}

// Create inserts a new admin record.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	const query = `INSERT INTO admins (id, staff_id, name, designation, hostel_name, personal_email, phone_number, password_hash, created_at, updated_at)
        VALUES (:id, :staff_id, :name, :designation, :hostel_name, :personal_email, :phone_number, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
