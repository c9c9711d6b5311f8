package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/middleware"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/export"
)

type grievanceServiceMock struct {
	createResp   *models.Grievance
	createErr    error
	createLinks  []string
	createCalled bool
	listResp     []models.Grievance
	listErr      error
	getResp      *models.Grievance
	getErr       error
	updateResp   *models.Grievance
	updateErr    error
	lastStatus   models.GrievanceStatus
	exportResp   export.Dataset
	exportHostel string
	exportErr    error
}

func (m *grievanceServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateGrievanceRequest, imageLinks []string) (*models.Grievance, error) {
	m.createCalled = true
	m.createLinks = imageLinks
	return m.createResp, m.createErr
}

func (m *grievanceServiceMock) ListMine(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, error) {
	return m.listResp, m.listErr
}

func (m *grievanceServiceMock) ListForHostel(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, string, error) {
	return m.listResp, m.exportHostel, m.listErr
}

func (m *grievanceServiceMock) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Grievance, error) {
	return m.getResp, m.getErr
}

func (m *grievanceServiceMock) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req models.UpdateStatusRequest) (*models.Grievance, error) {
	m.lastStatus = req.Status
	return m.updateResp, m.updateErr
}

func (m *grievanceServiceMock) ExportForHostel(ctx context.Context, claims *models.JWTClaims) (export.Dataset, string, error) {
	return m.exportResp, m.exportHostel, m.exportErr
}

type uploaderMock struct {
	names []string
	err   error
	calls int
}

func (m *uploaderMock) SaveUpload(fh *multipart.FileHeader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	name := m.names[m.calls]
	m.calls++
	return name, nil
}

func grievanceTestContext(t *testing.T, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func multipartGrievance(t *testing.T, fields map[string]string, imageNames []string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestGrievanceHandlerCreate(t *testing.T) {
	mockSvc := &grievanceServiceMock{createResp: &models.Grievance{ID: "g-1", Status: models.StatusPending}}
	uploads := &uploaderMock{names: []string{"abc.jpg", "def.png"}}
	handler := NewGrievanceHandler(mockSvc, uploads, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s123"})
	body, contentType := multipartGrievance(t, map[string]string{
		"title":       "Broken fan",
		"description": "Does not start.",
		"category":    "maintenance",
	}, []string{"fan1.jpg", "fan2.png"})
	req, _ := http.NewRequest(http.MethodPost, "/api/grievances", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
	assert.Equal(t, []string{"/uploads/abc.jpg", "/uploads/def.png"}, mockSvc.createLinks)
}

func TestGrievanceHandlerCreateWithoutImages(t *testing.T) {
	mockSvc := &grievanceServiceMock{createResp: &models.Grievance{ID: "g-1"}}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s123"})
	body, contentType := multipartGrievance(t, map[string]string{
		"title":       "Broken fan",
		"description": "Does not start.",
		"category":    "maintenance",
	}, nil)
	req, _ := http.NewRequest(http.MethodPost, "/api/grievances", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, mockSvc.createLinks)
}

func TestGrievanceHandlerCreateTooManyImages(t *testing.T) {
	mockSvc := &grievanceServiceMock{}
	uploads := &uploaderMock{names: []string{"a", "b", "c", "d", "e", "f"}}
	handler := NewGrievanceHandler(mockSvc, uploads, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s123"})
	body, contentType := multipartGrievance(t, map[string]string{
		"title":       "Broken fan",
		"description": "Does not start.",
		"category":    "maintenance",
	}, []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"})
	req, _ := http.NewRequest(http.MethodPost, "/api/grievances", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestGrievanceHandlerCreateOversizedImage(t *testing.T) {
	mockSvc := &grievanceServiceMock{}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{names: []string{"a.jpg"}}, 4)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s123"})
	body, contentType := multipartGrievance(t, map[string]string{
		"title":       "Broken fan",
		"description": "Does not start.",
		"category":    "maintenance",
	}, []string{"big.jpg"})
	req, _ := http.NewRequest(http.MethodPost, "/api/grievances", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestGrievanceHandlerCreateWithoutClaims(t *testing.T) {
	handler := NewGrievanceHandler(&grievanceServiceMock{}, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, nil)
	req, _ := http.NewRequest(http.MethodPost, "/api/grievances", nil)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGrievanceHandlerListMine(t *testing.T) {
	mockSvc := &grievanceServiceMock{listResp: []models.Grievance{{ID: "g-1"}, {ID: "g-2"}}}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s123"})
	req, _ := http.NewRequest(http.MethodGet, "/api/grievances/my", nil)
	c.Request = req

	handler.ListMine(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Grievance `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestGrievanceHandlerGetForbidden(t *testing.T) {
	mockSvc := &grievanceServiceMock{getErr: appErrors.ErrForbidden}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleStudent, RegistrationID: "s999"})
	req, _ := http.NewRequest(http.MethodGet, "/grievance/g-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGrievanceHandlerUpdateStatus(t *testing.T) {
	mockSvc := &grievanceServiceMock{updateResp: &models.Grievance{ID: "g-1", Status: models.StatusRunning}}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleAdmin, StaffID: "w42"})
	req, _ := http.NewRequest(http.MethodPost, "/grievance/g-1/status", bytes.NewBufferString(`{"status":"running"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g-1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusRunning, mockSvc.lastStatus)
}

func TestGrievanceHandlerUpdateStatusInvalidBody(t *testing.T) {
	handler := NewGrievanceHandler(&grievanceServiceMock{}, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleAdmin, StaffID: "w42"})
	req, _ := http.NewRequest(http.MethodPost, "/grievance/g-1/status", bytes.NewBufferString(`{"status":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g-1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGrievanceHandlerExportCSV(t *testing.T) {
	mockSvc := &grievanceServiceMock{
		exportHostel: "B",
		exportResp: export.Dataset{
			Headers: []string{"ID", "Title"},
			Rows:    []map[string]string{{"ID": "g-1", "Title": "Broken fan"}},
		},
	}
	handler := NewGrievanceHandler(mockSvc, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleAdmin, StaffID: "w42"})
	req, _ := http.NewRequest(http.MethodGet, "/all/greivances/admin/export?format=csv", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "grievances-hostel-B")
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Title"))
	assert.Contains(t, w.Body.String(), "Broken fan")
}

func TestGrievanceHandlerExportUnknownFormat(t *testing.T) {
	handler := NewGrievanceHandler(&grievanceServiceMock{}, &uploaderMock{}, 1<<20)

	c, w := grievanceTestContext(t, &models.JWTClaims{Role: models.RoleAdmin, StaffID: "w42"})
	req, _ := http.NewRequest(http.MethodGet, "/all/greivances/admin/export?format=xml", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
