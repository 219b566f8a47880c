package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yudadh/dokumen-service/internal/service"
	"github.com/yudadh/dokumen-service/pkg/response"
)

// ReportHandler exposes verification report exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Verification godoc
// @Summary Export a student's document verification report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param format query string false "Report format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Router /students/{studentId}/documents/export [get]
func (h *ReportHandler) Verification(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))

	report, err := h.reports.VerificationReport(c.Request.Context(), c.Param("studentId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(200, report.ContentType, report.Content)
}
