package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
	"emboditrust/verifyhub/internal/service"
	"emboditrust/verifyhub/pkg/response"
)

type AdminHandler struct {
	brandService      service.BrandService
	generationService service.GenerationService
	reportService     service.ReportService
	codeRepo          repository.ProductCodeRepository
	attemptRepo       repository.VerificationAttemptRepository
}

func NewAdminHandler(
	brandService service.BrandService,
	generationService service.GenerationService,
	reportService service.ReportService,
	codeRepo repository.ProductCodeRepository,
	attemptRepo repository.VerificationAttemptRepository,
) *AdminHandler {
	return &AdminHandler{
		brandService:      brandService,
		generationService: generationService,
		reportService:     reportService,
		codeRepo:          codeRepo,
		attemptRepo:       attemptRepo,
	}
}

type RegisterBrandRequest struct {
	Name         string `json:"name" binding:"required"`
	Prefix       string `json:"prefix" binding:"required"`
	ContactEmail string `json:"contact_email"`
}

func (h *AdminHandler) RegisterBrand(c *gin.Context) {
	var req RegisterBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	brand, err := h.brandService.RegisterBrand(c.Request.Context(), req.Name, req.Prefix, req.ContactEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBrandPrefix):
			response.BadRequest(c, "prefix must be 3 symbols from the code alphabet")
		case errors.Is(err, service.ErrBrandPrefixTaken):
			response.Conflict(c, "prefix already registered")
		default:
			response.InternalError(c, "failed to register brand")
		}
		return
	}

	response.Success(c, brand)
}

func (h *AdminHandler) ListBrands(c *gin.Context) {
	brands, err := h.brandService.ListBrands(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list brands")
		return
	}
	response.Success(c, brands)
}

type GenerateBatchRequest struct {
	BrandPrefix string `json:"brand_prefix" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
}

// GenerateBatch issues a new batch. The raw codes in the response are shown
// exactly once; only hashes are retained server-side.
func (h *AdminHandler) GenerateBatch(c *gin.Context) {
	adminID, err := getAdminIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid admin context")
		return
	}

	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	generated, err := h.generationService.GenerateBatch(c.Request.Context(), req.BrandPrefix, req.Quantity, adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBrandPrefix):
			response.BadRequest(c, "unregistered or malformed brand prefix")
		case errors.Is(err, service.ErrBrandInactive):
			response.BadRequest(c, "brand is deactivated")
		case errors.Is(err, service.ErrInvalidBatchSize):
			response.BadRequest(c, "quantity out of range")
		default:
			response.InternalError(c, "failed to generate batch")
		}
		return
	}

	response.Success(c, generated)
}

func (h *AdminHandler) ListBatches(c *gin.Context) {
	batches, err := h.generationService.ListBatches(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list batches")
		return
	}
	response.Success(c, batches)
}

func (h *AdminHandler) BatchStats(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid batch id")
		return
	}

	stats, err := h.generationService.GetBatchStats(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			response.NotFound(c, "batch not found")
			return
		}
		response.InternalError(c, "failed to load batch stats")
		return
	}
	response.Success(c, stats)
}

// FlagCode marks a code as suspected counterfeit.
func (h *AdminHandler) FlagCode(c *gin.Context) {
	h.overrideStatus(c, model.CodeStatusSuspectedCounterfeit)
}

// RevokeCode withdraws a code from circulation.
func (h *AdminHandler) RevokeCode(c *gin.Context) {
	h.overrideStatus(c, model.CodeStatusRevoked)
}

func (h *AdminHandler) overrideStatus(c *gin.Context, status model.CodeStatus) {
	codeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid code id")
		return
	}

	if err := h.codeRepo.UpdateStatus(c.Request.Context(), codeID, status); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			response.NotFound(c, "code not found")
			return
		}
		response.InternalError(c, "failed to update code status")
		return
	}
	response.Success(c, gin.H{"id": codeID, "status": status})
}

func (h *AdminHandler) ListAttempts(c *gin.Context) {
	q := repository.AttemptQuery{
		Result:  model.VerificationResult(c.Query("result")),
		Channel: model.VerificationChannel(c.Query("channel")),
	}
	attempts, err := h.attemptRepo.List(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, "failed to list attempts")
		return
	}
	response.Success(c, attempts)
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.reportService.ListReports(c.Request.Context(), model.ReportStatus(c.Query("status")))
	if err != nil {
		response.InternalError(c, "failed to list reports")
		return
	}
	response.Success(c, reports)
}

type ReviewReportRequest struct {
	Status model.ReportStatus `json:"status" binding:"required"`
}

func (h *AdminHandler) ReviewReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}

	var req ReviewReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Status != model.ReportStatusReviewed && req.Status != model.ReportStatusDismissed {
		response.BadRequest(c, "status must be reviewed or dismissed")
		return
	}

	if err := h.reportService.ReviewReport(c.Request.Context(), reportID, req.Status); err != nil {
		response.InternalError(c, "failed to update report")
		return
	}
	response.Success(c, gin.H{"id": reportID, "status": req.Status})
}
