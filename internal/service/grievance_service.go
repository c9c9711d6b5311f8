package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/export"
)

// MaxGrievanceImages caps image attachments per submission.
const MaxGrievanceImages = 5

type grievanceStore interface {
	Create(ctx context.Context, grievance *models.Grievance) error
	FindByID(ctx context.Context, id string) (*models.Grievance, error)
	ListByRegistrationID(ctx context.Context, registrationID string) ([]models.Grievance, error)
	ListByHostel(ctx context.Context, hostelName string) ([]models.Grievance, error)
	UpdateStatus(ctx context.Context, id string, status models.GrievanceStatus) (*models.Grievance, error)
}

type studentReader interface {
	FindByRegistrationID(ctx context.Context, registrationID string) (*models.Student, error)
}

type adminReader interface {
	FindByStaffID(ctx context.Context, staffID string) (*models.Admin, error)
}

// StatusNotifier delivers status-change notifications to grievance owners.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, student *models.Student, grievance *models.Grievance) error
}

// GrievanceService implements the grievance workflow: creation, scoped
// listing, scoped fetch and status transitions.
type GrievanceService struct {
	grievances grievanceStore
	students   studentReader
	admins     adminReader
	notifier   StatusNotifier
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewGrievanceService constructs a GrievanceService. notifier may be nil
// when mail is not configured.
func NewGrievanceService(grievances grievanceStore, students studentReader, admins adminReader, notifier StatusNotifier, validate *validator.Validate, logger *zap.Logger) *GrievanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GrievanceService{grievances: grievances, students: students, admins: admins, notifier: notifier, validator: validate, logger: logger}
}

// Create files a new grievance for the authenticated student. The hostel
// is resolved from the student's stored record, never from client input.
func (s *GrievanceService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateGrievanceRequest, imageLinks []string) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, description and category are required")
	}
	if len(imageLinks) > MaxGrievanceImages {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d images are allowed", MaxGrievanceImages))
	}

	student, err := s.students.FindByRegistrationID(ctx, claims.RegistrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	grievance := &models.Grievance{
		RegistrationID: student.RegistrationID,
		HostelName:     student.HostelName,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Images:         pq.StringArray(imageLinks),
		Status:         models.StatusPending,
	}

	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grievance")
	}

	s.logger.Info("grievance filed",
		zap.String("id", grievance.ID),
		zap.String("registration_id", grievance.RegistrationID),
		zap.String("hostel", grievance.HostelName),
		zap.String("category", string(grievance.Category)),
	)
	return grievance, nil
}

// ListMine returns the grievances filed by the authenticated student. The
// filter comes strictly from the token claim.
func (s *GrievanceService) ListMine(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, error) {
	grievances, err := s.grievances.ListByRegistrationID(ctx, claims.RegistrationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grievances")
	}
	return grievances, nil
}

// ListForHostel returns the grievances of the hostel the authenticated
// admin manages, resolved from the credential store.
func (s *GrievanceService) ListForHostel(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, string, error) {
	admin, err := s.resolveAdmin(ctx, claims)
	if err != nil {
		return nil, "", err
	}

	grievances, err := s.grievances.ListByHostel(ctx, admin.HostelName)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grievances")
	}
	return grievances, admin.HostelName, nil
}

// Get fetches a single grievance. A student may only fetch a grievance
// they filed; an admin only one belonging to the hostel they manage.
func (s *GrievanceService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Grievance, error) {
	grievance, err := s.grievances.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch grievance")
	}

	if err := s.authorizeAccess(ctx, claims, grievance); err != nil {
		return nil, err
	}
	return grievance, nil
}

// UpdateStatus transitions a grievance's status. Only an admin managing
// the grievance's hostel may do so, and only to one of the three
// lifecycle values.
func (s *GrievanceService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req models.UpdateStatusRequest) (*models.Grievance, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}

	grievance, err := s.grievances.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch grievance")
	}

	admin, err := s.resolveAdmin(ctx, claims)
	if err != nil {
		return nil, err
	}
	if admin.HostelName != grievance.HostelName {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "grievance belongs to another hostel")
	}

	updated, err := s.grievances.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	s.logger.Info("grievance status updated",
		zap.String("id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("staff_id", admin.StaffID),
	)

	s.notifyOwner(ctx, updated)
	return updated, nil
}

// ExportForHostel renders the admin's hostel grievances as a tabular
// dataset for CSV/PDF download.
func (s *GrievanceService) ExportForHostel(ctx context.Context, claims *models.JWTClaims) (export.Dataset, string, error) {
	grievances, hostel, err := s.ListForHostel(ctx, claims)
	if err != nil {
		return export.Dataset{}, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Registration ID", "Title", "Category", "Status", "Filed At"},
		Rows:    make([]map[string]string, 0, len(grievances)),
	}
	for _, g := range grievances {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":              g.ID,
			"Registration ID": g.RegistrationID,
			"Title":           g.Title,
			"Category":        string(g.Category),
			"Status":          string(g.Status),
			"Filed At":        g.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return dataset, hostel, nil
}

func (s *GrievanceService) resolveAdmin(ctx context.Context, claims *models.JWTClaims) (*models.Admin, error) {
	admin, err := s.admins.FindByStaffID(ctx, claims.StaffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	return admin, nil
}

func (s *GrievanceService) authorizeAccess(ctx context.Context, claims *models.JWTClaims, grievance *models.Grievance) error {
	switch claims.Role {
	case models.RoleStudent:
		if grievance.RegistrationID != claims.RegistrationID {
			return appErrors.Clone(appErrors.ErrForbidden, "grievance belongs to another student")
		}
	case models.RoleAdmin:
		admin, err := s.resolveAdmin(ctx, claims)
		if err != nil {
			return err
		}
		if admin.HostelName != grievance.HostelName {
			return appErrors.Clone(appErrors.ErrForbidden, "grievance belongs to another hostel")
		}
	default:
		return appErrors.ErrForbidden
	}
	return nil
}

// notifyOwner sends a best-effort status mail to the filing student.
// Failures are logged, never surfaced.
func (s *GrievanceService) notifyOwner(ctx context.Context, grievance *models.Grievance) {
	if s.notifier == nil {
		return
	}

	student, err := s.students.FindByRegistrationID(ctx, grievance.RegistrationID)
	if err != nil {
		s.logger.Warn("failed to resolve grievance owner for notification", zap.Error(err))
		return
	}
	if err := s.notifier.NotifyStatusChange(ctx, student, grievance); err != nil {
		s.logger.Warn("failed to send status notification", zap.Error(err))
	}
}
