package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
)

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	FindByRegistrationID(ctx context.Context, registrationID string) (*models.Student, error)
	ExistsByRegistrationID(ctx context.Context, registrationID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type adminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByStaffID(ctx context.Context, staffID string) (*models.Admin, error)
	ExistsByStaffID(ctx context.Context, staffID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type loginThrottle interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret         string
	TokenExpiry         time.Duration
	Issuer              string
	BcryptCost          int
	ThrottleEnabled     bool
	ThrottleMaxAttempts int64
	ThrottleWindow      time.Duration
}

// AuthService provides registration, login and token verification for
// both principal roles.
type AuthService struct {
	students  studentStore
	admins    adminStore
	throttle  loginThrottle
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students studentStore, admins adminStore, throttle loginThrottle, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.BcryptCost < bcrypt.DefaultCost {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{students: students, admins: admins, throttle: throttle, validator: validate, logger: logger, config: config}
}

// RegisterStudent validates and persists a new student record.
func (s *AuthService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid student fields")
	}

	registrationID := normalizeID(req.RegistrationID)
	email := normalizeID(req.PersonalEmail)

	exists, err := s.students.ExistsByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already registered")
	}

	emailTaken, err := s.students.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if emailTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		RegistrationID: registrationID,
		Name:           req.Name,
		Course:         req.Course,
		Batch:          req.Batch,
		PersonalEmail:  email,
		PhoneNumber:    req.PhoneNumber,
		HostelName:     req.HostelName,
		RoomNumber:     req.RoomNumber,
		PasswordHash:   string(hash),
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student registered", zap.String("registration_id", student.RegistrationID), zap.String("hostel", student.HostelName))
	return student, nil
}

// RegisterAdmin validates and persists a new admin record.
func (s *AuthService) RegisterAdmin(ctx context.Context, req models.RegisterAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid admin fields")
	}

	staffID := normalizeID(req.StaffID)
	email := normalizeID(req.PersonalEmail)

	exists, err := s.admins.ExistsByStaffID(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "staff already registered")
	}

	emailTaken, err := s.admins.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if emailTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.Admin{
		StaffID:       staffID,
		Name:          req.Name,
		Designation:   req.Designation,
		HostelName:    req.HostelName,
		PersonalEmail: email,
		PhoneNumber:   req.PhoneNumber,
		PasswordHash:  string(hash),
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin registered", zap.String("staff_id", admin.StaffID), zap.String("hostel", admin.HostelName))
	return admin, nil
}

// LoginStudent authenticates a student and returns an issued token with
// the profile. Unknown identity and wrong password are indistinguishable
// to the caller.
func (s *AuthService) LoginStudent(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "registration id and password are required")
	}

	registrationID := normalizeID(req.RegistrationID)
	throttleKey := "login:student:" + registrationID
	if err := s.checkThrottle(ctx, throttleKey); err != nil {
		return nil, err
	}

	student, err := s.students.FindByRegistrationID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("login failed: unknown registration id", zap.String("registration_id", registrationID))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug("login failed: password mismatch", zap.String("registration_id", registrationID))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	s.resetThrottle(ctx, throttleKey)

	token, err := s.issueToken(models.JWTClaims{Role: models.RoleStudent, RegistrationID: student.RegistrationID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		Role:      models.RoleStudent,
		Student:   student,
	}, nil
}

// LoginAdmin authenticates an admin and returns an issued token with the
// profile.
func (s *AuthService) LoginAdmin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "staff id and password are required")
	}

	staffID := normalizeID(req.StaffID)
	throttleKey := "login:admin:" + staffID
	if err := s.checkThrottle(ctx, throttleKey); err != nil {
		return nil, err
	}

	admin, err := s.admins.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("login failed: unknown staff id", zap.String("staff_id", staffID))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug("login failed: password mismatch", zap.String("staff_id", staffID))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	s.resetThrottle(ctx, throttleKey)

	token, err := s.issueToken(models.JWTClaims{Role: models.RoleAdmin, StaffID: admin.StaffID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		Role:      models.RoleAdmin,
		Admin:     admin,
	}, nil
}

// StudentProfile loads the profile matching the token's registration id.
// A miss for a validly issued token is a data-integrity anomaly.
func (s *AuthService) StudentProfile(ctx context.Context, registrationID string) (*models.Student, error) {
	student, err := s.students.FindByRegistrationID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("profile missing for valid token", zap.String("registration_id", registrationID))
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// AdminProfile loads the profile matching the token's staff id.
func (s *AuthService) AdminProfile(ctx context.Context, staffID string) (*models.Admin, error) {
	admin, err := s.admins.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("profile missing for valid token", zap.String("staff_id", staffID))
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	return admin, nil
}

// ValidateToken parses and validates an access token returning the claims.
// Verification is all-or-nothing: bad signature, wrong algorithm, malformed
// structure and expiry all fail identically.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "token invalid or expired")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) issueToken(claims models.JWTClaims) (string, error) {
	issuedAt := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   claims.Identity(),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

// checkThrottle counts the attempt and rejects once the window limit is
// exceeded. Redis failures log and fail open; the limiter is a guard, not
// a dependency.
func (s *AuthService) checkThrottle(ctx context.Context, key string) error {
	if !s.config.ThrottleEnabled || s.throttle == nil {
		return nil
	}

	count, err := s.throttle.Incr(ctx, key, s.config.ThrottleWindow)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if s.config.ThrottleMaxAttempts > 0 && count > s.config.ThrottleMaxAttempts {
		s.logger.Warn("login throttled", zap.String("key", key), zap.Int64("attempts", count))
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}
	return nil
}

func (s *AuthService) resetThrottle(ctx context.Context, key string) {
	if !s.config.ThrottleEnabled || s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, key); err != nil {
		s.logger.Warn("failed to reset login throttle", zap.Error(err))
	}
}

// normalizeID lowercases and trims identity fields so lookups and
// uniqueness checks are case-insensitive.
func normalizeID(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
