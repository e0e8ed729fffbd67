package handler

import (
	"github.com/gin-gonic/gin"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/service"
	"emboditrust/verifyhub/pkg/response"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type FileReportRequest struct {
	Code          string `json:"code"`
	Description   string `json:"description" binding:"required"`
	ReporterPhone string `json:"reporter_phone"`
	Location      string `json:"location"`
}

// File accepts a counterfeit report from a consumer.
func (h *ReportHandler) File(c *gin.Context) {
	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	report := &model.CounterfeitReport{
		CodeEntered:   req.Code,
		Description:   req.Description,
		ReporterPhone: req.ReporterPhone,
		Location:      req.Location,
	}
	if err := h.reportService.FileReport(c.Request.Context(), report); err != nil {
		response.InternalError(c, "failed to file report")
		return
	}

	response.Success(c, report)
}
