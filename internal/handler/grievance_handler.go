package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/service"
	appErrors "github.com/shivamgupta1990/hostel-grievance-api/pkg/errors"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/export"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/response"
)

// UploadURLPrefix is the public path prefix under which stored images are
// served.
const UploadURLPrefix = "/uploads/"

type grievanceService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req models.CreateGrievanceRequest, imageLinks []string) (*models.Grievance, error)
	ListMine(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, error)
	ListForHostel(ctx context.Context, claims *models.JWTClaims) ([]models.Grievance, string, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Grievance, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req models.UpdateStatusRequest) (*models.Grievance, error)
	ExportForHostel(ctx context.Context, claims *models.JWTClaims) (export.Dataset, string, error)
}

type uploader interface {
	SaveUpload(fh *multipart.FileHeader) (string, error)
}

// GrievanceHandler wires the grievance workflow endpoints.
type GrievanceHandler struct {
	service      grievanceService
	uploads      uploader
	maxImageSize int64
}

// NewGrievanceHandler creates a new handler.
func NewGrievanceHandler(svc grievanceService, uploads uploader, maxImageSize int64) *GrievanceHandler {
	return &GrievanceHandler{service: svc, uploads: uploads, maxImageSize: maxImageSize}
}

// Create godoc
// @Summary File a grievance
// @Description Submit a grievance with up to 5 images; the hostel is taken from the student's record
// @Tags Grievances
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param images formData file false "Images (max 5)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/grievances [post]
func (h *GrievanceHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateGrievanceRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "title, description and category are required"))
		return
	}

	links, err := h.saveImages(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	grievance, err := h.service.Create(c.Request.Context(), claims, req, links)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, grievance)
}

// ListMine godoc
// @Summary List own grievances
// @Description Returns all grievances filed by the authenticated student
// @Tags Grievances
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/grievances/my [get]
func (h *GrievanceHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grievances, err := h.service.ListMine(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievances)
}

// ListByHostel godoc
// @Summary List hostel grievances
// @Description Returns all grievances of the hostel the authenticated admin manages
// @Tags Grievances
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /all/greivances/admin [get]
func (h *GrievanceHandler) ListByHostel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grievances, _, err := h.service.ListForHostel(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievances)
}

// Get godoc
// @Summary Fetch one grievance
// @Description Returns a single grievance; students see only their own, admins only their hostel's
// @Tags Grievances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grievance ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievance/{id} [get]
func (h *GrievanceHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grievance, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievance)
}

// UpdateStatus godoc
// @Summary Update grievance status
// @Description Move a grievance to pending, running or completed
// @Tags Grievances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grievance ID"
// @Param payload body models.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievance/{id}/status [post]
func (h *GrievanceHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	grievance, err := h.service.UpdateStatus(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievance)
}

// Export godoc
// @Summary Export hostel grievances
// @Description Download the admin's hostel grievance list as CSV or PDF
// @Tags Grievances
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /all/greivances/admin/export [get]
func (h *GrievanceHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dataset, hostel, err := h.service.ExportForHostel(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("grievances-hostel-%s-%s", hostel, time.Now().UTC().Format("20060102"))

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := export.NewPDFExporter().Render(dataset, fmt.Sprintf("Hostel %s grievances", hostel))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// saveImages stores the multipart image parts in upload order and returns
// their public links.
func (h *GrievanceHandler) saveImages(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all means no images.
		return nil, nil
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > service.MaxGrievanceImages {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d images are allowed", service.MaxGrievanceImages))
	}

	links := make([]string, 0, len(files))
	for _, fh := range files {
		if h.maxImageSize > 0 && fh.Size > h.maxImageSize {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image %s exceeds the size limit", fh.Filename))
		}
		name, err := h.uploads.SaveUpload(fh)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
		}
		links = append(links, UploadURLPrefix+name)
	}
	return links, nil
}
