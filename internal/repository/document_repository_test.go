package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudadh/dokumen-service/internal/models"
)

func newDocumentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestDocumentRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "document_type_id", "file_path", "access_url",
		"url_expires_at", "status", "annotation", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "student-1", "type-1", "Kartu-Keluarga/student-1-Kartu-Keluarga.pdf",
		"https://files.example/doc", now.Add(time.Hour), "BELUM_VALID", nil, now, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO student_documents")).
		WillReturnRows(rows)

	saved, err := repo.Upsert(context.Background(), &models.StudentDocument{
		StudentID:      "student-1",
		DocumentTypeID: "type-1",
		FilePath:       "Kartu-Keluarga/student-1-Kartu-Keluarga.pdf",
		AccessURL:      "https://files.example/doc",
		URLExpiresAt:   now.Add(time.Hour),
		Status:         models.DocumentStatusUnvalidated,
	})

	require.NoError(t, err)
	assert.Equal(t, "doc-1", saved.ID)
	assert.Equal(t, models.DocumentStatusUnvalidated, saved.Status)
	assert.Nil(t, saved.Annotation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryFindByIDNone(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("doc-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "doc-404")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestDocumentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "document_type_id", "file_path", "access_url",
		"url_expires_at", "status", "annotation", "created_at", "updated_at", "type_name",
	}).AddRow(
		"doc-1", "student-1", "type-1", "Akta-Kelahiran/student-1-Akta-Kelahiran.pdf",
		"https://files.example/doc", now.Add(time.Hour), "VALID_SD", "[siswa] Perbaiki scan", now, nil, "Akta Kelahiran",
	)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN master_documents md ON md.id = sd.document_type_id")).
		WithArgs("student-1").
		WillReturnRows(rows)

	docs, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Akta Kelahiran", docs[0].TypeName)
	assert.Equal(t, models.DocumentStatusValidSD, docs[0].Status)
	require.NotNil(t, docs[0].Annotation)
}

func TestDocumentRepositoryUpdateStatusClearsAnnotation(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("VALID_SD", nil, sqlmock.AnyArg(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "doc-1", models.DocumentStatusValidSD, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateStatusMissingDocument(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents")).
		WithArgs("VALID_SD", nil, sqlmock.AnyArg(), "doc-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "doc-404", models.DocumentStatusValidSD, nil)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRollupAdvancesRegistration(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, status FROM registrations WHERE id = $1 FOR UPDATE")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "VERIF_SD"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("VALID_SMP", "[adminSD] OK", sqlmock.AnyArg(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM student_documents WHERE student_id = $1")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("VALID_SMP").AddRow("VALID_SMP"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("VERIF_SMP", sqlmock.AnyArg(), "reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	note := "[adminSD] OK"
	err := repo.UpdateStatusWithRollup(context.Background(), "doc-1", models.DocumentStatusValidSMP, &note, "reg-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRollupDemotesRegistration(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "VERIF_SMP"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("BELUM_VALID", nil, sqlmock.AnyArg(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM student_documents")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("BELUM_VALID").AddRow("VALID_SMP"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status = $1")).
		WithArgs("VERIF_SD", sqlmock.AnyArg(), "reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatusWithRollup(context.Background(), "doc-1", models.DocumentStatusUnvalidated, nil, "reg-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRollupLeavesLowerTierAlone(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "VERIF_SD"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("VALID_SD", nil, sqlmock.AnyArg(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM student_documents")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("VALID_SD").AddRow("BELUM_VALID"))
	mock.ExpectCommit()

	err := repo.UpdateStatusWithRollup(context.Background(), "doc-1", models.DocumentStatusValidSD, nil, "reg-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRollupMissingDocument(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "VERIF_SD"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents")).
		WithArgs("VALID_SD", nil, sqlmock.AnyArg(), "doc-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateStatusWithRollup(context.Background(), "doc-404", models.DocumentStatusValidSD, nil, "reg-1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryRollupRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("student-1", "VERIF_SD"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_documents")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.UpdateStatusWithRollup(context.Background(), "doc-1", models.DocumentStatusValidSD, nil, "reg-1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
