package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
)

type mockStudentStore struct {
	student     *models.Student
	created     *models.Student
	idExists    bool
	emailExists bool
	findErr     error
	createErr   error
}

func (m *mockStudentStore) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = student
	return nil
}

func (m *mockStudentStore) FindByRegistrationID(ctx context.Context, registrationID string) (*models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.student == nil || m.student.RegistrationID != registrationID {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

func (m *mockStudentStore) ExistsByRegistrationID(ctx context.Context, registrationID string) (bool, error) {
	return m.idExists, nil
}

func (m *mockStudentStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, nil
}

type mockAdminStore struct {
	admin       *models.Admin
	created     *models.Admin
	idExists    bool
	emailExists bool
}

func (m *mockAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	m.created = admin
	return nil
}

func (m *mockAdminStore) FindByStaffID(ctx context.Context, staffID string) (*models.Admin, error) {
	if m.admin == nil || m.admin.StaffID != staffID {
		return nil, sql.ErrNoRows
	}
	return m.admin, nil
}

func (m *mockAdminStore) ExistsByStaffID(ctx context.Context, staffID string) (bool, error) {
	return m.idExists, nil
}

func (m *mockAdminStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, nil
}

type mockThrottle struct {
	count    int64
	incrErr  error
	resetKey string
}

func (m *mockThrottle) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.count++
	return m.count, nil
}

func (m *mockThrottle) Reset(ctx context.Context, key string) error {
	m.resetKey = key
	return nil
}

func newAuthService(students *mockStudentStore, admins *mockAdminStore, throttle loginThrottle, cfg AuthConfig) *AuthService {
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = "secret"
	}
	if cfg.TokenExpiry == 0 {
		cfg.TokenExpiry = time.Hour
	}
	return NewAuthService(students, admins, throttle, validator.New(), zap.NewNop(), cfg)
}

func validStudentRequest() models.RegisterStudentRequest {
	return models.RegisterStudentRequest{
		Name:           "Asha Verma",
		RegistrationID: "S123",
		Course:         "B.Tech",
		Batch:          "2023-27",
		PersonalEmail:  "Asha@Example.com",
		HostelName:     "B",
		RoomNumber:     "214",
		Password:       "secret123",
	}
}

func TestRegisterStudentNormalizesAndHashes(t *testing.T) {
	students := &mockStudentStore{}
	svc := newAuthService(students, &mockAdminStore{}, nil, AuthConfig{})

	student, err := svc.RegisterStudent(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, "s123", student.RegistrationID)
	assert.Equal(t, "asha@example.com", student.PersonalEmail)
	assert.NotEqual(t, "secret123", student.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("secret123")))
	assert.NotNil(t, students.created)
}

func TestRegisterStudentMissingFields(t *testing.T) {
	svc := newAuthService(&mockStudentStore{}, &mockAdminStore{}, nil, AuthConfig{})

	req := validStudentRequest()
	req.HostelName = ""
	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterStudentInvalidHostel(t *testing.T) {
	svc := newAuthService(&mockStudentStore{}, &mockAdminStore{}, nil, AuthConfig{})

	req := validStudentRequest()
	req.HostelName = "Z"
	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterStudentDuplicateID(t *testing.T) {
	svc := newAuthService(&mockStudentStore{idExists: true}, &mockAdminStore{}, nil, AuthConfig{})

	_, err := svc.RegisterStudent(context.Background(), validStudentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestRegisterStudentDuplicateEmail(t *testing.T) {
	svc := newAuthService(&mockStudentStore{emailExists: true}, &mockAdminStore{}, nil, AuthConfig{})

	_, err := svc.RegisterStudent(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterAdminDuplicateStaffID(t *testing.T) {
	svc := newAuthService(&mockStudentStore{}, &mockAdminStore{idExists: true}, nil, AuthConfig{})

	_, err := svc.RegisterAdmin(context.Background(), models.RegisterAdminRequest{
		Name:          "R. Nair",
		StaffID:       "W42",
		Designation:   "warden",
		HostelName:    "A",
		PersonalEmail: "nair@example.com",
		PhoneNumber:   "9999999999",
		Password:      "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginStudentSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{
		RegistrationID: "s123",
		HostelName:     "B",
		PasswordHash:   string(hash),
	}}
	svc := newAuthService(students, &mockAdminStore{}, nil, AuthConfig{})

	res, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "  S123 ", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleStudent, res.Role)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	require.NotNil(t, res.Student)
	assert.Equal(t, "s123", res.Student.RegistrationID)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "s123", claims.RegistrationID)
	assert.Empty(t, claims.StaffID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	svc := newAuthService(students, &mockAdminStore{}, nil, AuthConfig{})

	_, wrongPassword := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "nope"})
	_, unknownID := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "ghost", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownID)
	wrongErr := appErrors.FromError(wrongPassword)
	unknownErr := appErrors.FromError(unknownID)
	assert.Equal(t, wrongErr.Code, unknownErr.Code)
	assert.Equal(t, wrongErr.Status, unknownErr.Status)
	assert.Equal(t, wrongErr.Message, unknownErr.Message)
}

func TestLoginStudentMissingPassword(t *testing.T) {
	svc := newAuthService(&mockStudentStore{}, &mockAdminStore{}, nil, AuthConfig{})

	_, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginThrottleBlocksAfterLimit(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	throttle := &mockThrottle{count: 5}
	svc := newAuthService(students, &mockAdminStore{}, throttle, AuthConfig{
		ThrottleEnabled:     true,
		ThrottleMaxAttempts: 5,
		ThrottleWindow:      time.Minute,
	})

	_, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	throttle := &mockThrottle{incrErr: assert.AnError}
	svc := newAuthService(students, &mockAdminStore{}, throttle, AuthConfig{
		ThrottleEnabled:     true,
		ThrottleMaxAttempts: 5,
		ThrottleWindow:      time.Minute,
	})

	_, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "secret123"})
	require.NoError(t, err)
}

func TestLoginResetsThrottleOnSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	throttle := &mockThrottle{}
	svc := newAuthService(students, &mockAdminStore{}, throttle, AuthConfig{
		ThrottleEnabled:     true,
		ThrottleMaxAttempts: 5,
		ThrottleWindow:      time.Minute,
	})

	_, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "login:student:s123", throttle.resetKey)
}

func TestLoginAdminSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	admins := &mockAdminStore{admin: &models.Admin{StaffID: "w42", HostelName: "A", PasswordHash: string(hash)}}
	svc := newAuthService(&mockStudentStore{}, admins, nil, AuthConfig{})

	res, err := svc.LoginAdmin(context.Background(), models.AdminLoginRequest{StaffID: "W42", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
	require.NotNil(t, res.Admin)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "w42", claims.StaffID)
	assert.Empty(t, claims.RegistrationID)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	svc := newAuthService(students, &mockAdminStore{}, nil, AuthConfig{})

	res, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	students := &mockStudentStore{student: &models.Student{RegistrationID: "s123", PasswordHash: string(hash)}}
	svc := newAuthService(students, &mockAdminStore{}, nil, AuthConfig{TokenExpiry: -time.Minute})

	res, err := svc.LoginStudent(context.Background(), models.StudentLoginRequest{RegistrationID: "s123", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestStudentProfileMissingRecord(t *testing.T) {
	svc := newAuthService(&mockStudentStore{}, &mockAdminStore{}, nil, AuthConfig{})

	_, err := svc.StudentProfile(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
