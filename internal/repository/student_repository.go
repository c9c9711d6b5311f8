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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByRegistrationID fetches a student by their registration id.
func (r *StudentRepository) FindByRegistrationID(ctx context.Context, registrationID string) (*models.Student, error) {
	const query = `SELECT id, registration_id, name, course, batch, personal_email, phone_number, hostel_name, room_number, password_hash, created_at, updated_at FROM students WHERE registration_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, registrationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by registration id: %w", err)
	}
	return &student, nil
}

// ExistsByRegistrationID checks if a student with the given registration id exists.
func (r *StudentRepository) ExistsByRegistrationID(ctx context.Context, registrationID string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE registration_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, registrationID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check registration id: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks if a student with the given personal email exists.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE personal_email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, registration_id, name, course, batch, personal_email, phone_number, hostel_name, room_number, password_hash, created_at, updated_at)
        VALUES (:id, :registration_id, :name, :course, :batch, :personal_email, :phone_number, :hostel_name, :room_number, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
