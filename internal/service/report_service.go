package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
	"github.com/yudadh/dokumen-service/pkg/export"
)

// ReportFormat selects the rendering of a verification report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Report is a rendered verification report ready to be sent to the client.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

type reportDocumentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error)
}

// ReportService renders per-student document verification reports.
type ReportService struct {
	docs     reportDocumentReader
	students studentReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(docs reportDocumentReader, students studentReader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		docs:     docs,
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// VerificationReport renders the status of every document a student has
// uploaded, in the requested format.
func (s *ReportService) VerificationReport(ctx context.Context, studentID string, format ReportFormat) (*Report, error) {
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	docs, err := s.docs.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student documents")
	}

	data := export.Dataset{
		Headers: []string{"Nama Siswa", "Jenis Dokumen", "Status"},
	}
	for _, doc := range docs {
		data.Rows = append(data.Rows, map[string]string{
			"Nama Siswa":    student.FullName,
			"Jenis Dokumen": doc.TypeName,
			"Status":        string(doc.Status),
		})
	}

	switch format {
	case ReportFormatPDF:
		content, err := s.pdf.Render(data, "Laporan Verifikasi Dokumen")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{
			FileName:    fmt.Sprintf("verifikasi-dokumen-%s.pdf", studentID),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{
			FileName:    fmt.Sprintf("verifikasi-dokumen-%s.csv", studentID),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}
