package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
)

type mockReportDocs struct {
	listFn func(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error)
}

func (m *mockReportDocs) ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error) {
	return m.listFn(ctx, studentID)
}

func reportStudents() *mockStudents {
	return &mockStudents{
		findByIDFn: func(ctx context.Context, id string) (*models.Student, error) {
			return &models.Student{ID: id, FullName: "Budi Santoso"}, nil
		},
	}
}

func TestVerificationReportCSV(t *testing.T) {
	docs := &mockReportDocs{
		listFn: func(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error) {
			return []models.StudentDocumentDetail{
				{
					StudentDocument: models.StudentDocument{ID: "doc-1", StudentID: studentID, Status: models.DocumentStatusValidSMP, URLExpiresAt: time.Now()},
					TypeName:        "Kartu Keluarga",
				},
			}, nil
		},
	}
	svc := NewReportService(docs, reportStudents(), nil)

	report, err := svc.VerificationReport(context.Background(), "student-1", ReportFormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.Equal(t, "verifikasi-dokumen-student-1.csv", report.FileName)
	body := string(report.Content)
	assert.True(t, strings.HasPrefix(body, "Nama Siswa,Jenis Dokumen,Status"))
	assert.Contains(t, body, "Budi Santoso,Kartu Keluarga,VALID_SMP")
}

func TestVerificationReportPDF(t *testing.T) {
	docs := &mockReportDocs{
		listFn: func(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error) {
			return []models.StudentDocumentDetail{}, nil
		},
	}
	svc := NewReportService(docs, reportStudents(), nil)

	report, err := svc.VerificationReport(context.Background(), "student-1", ReportFormatPDF)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"))
}

func TestVerificationReportUnknownFormat(t *testing.T) {
	svc := NewReportService(&mockReportDocs{}, reportStudents(), nil)

	_, err := svc.VerificationReport(context.Background(), "student-1", ReportFormat("xlsx"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVerificationReportUnknownStudent(t *testing.T) {
	students := &mockStudents{
		findByIDFn: func(ctx context.Context, id string) (*models.Student, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewReportService(&mockReportDocs{}, students, nil)

	_, err := svc.VerificationReport(context.Background(), "student-404", ReportFormatCSV)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
