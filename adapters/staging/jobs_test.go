package staging

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consolidador/domain/core"
	"consolidador/ports"
)

func newMockJobRepo(t *testing.T, dialect Dialect) (ports.JobRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS consolidation_jobs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	db := sqlx.NewDb(mockDB, "sqlmock")
	repo, err := NewJobRepository(context.Background(), db, dialect)
	require.NoError(t, err)
	return repo, mock
}

func jobColumns() []string {
	return []string{"id", "file_names", "table_count", "row_count", "column_count", "valid", "anomaly_report", "created_at"}
}

func TestJobRepository_Create(t *testing.T) {
	repo, mock := newMockJobRepo(t, DialectSQLite)

	createdAt := core.NewTimestamp(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	job := &ports.JobRecord{
		ID:            core.JobID("job-1"),
		FileNames:     []string{"a.xlsx", "b.xlsx"},
		TableCount:    3,
		RowCount:      42,
		ColumnCount:   10,
		Valid:         true,
		AnomalyReport: "Nenhuma anomalia detectada.",
		CreatedAt:     createdAt,
	}

	mock.ExpectExec("INSERT INTO consolidation_jobs").
		WithArgs("job-1", `["a.xlsx","b.xlsx"]`, 3, 42, 10, true,
			"Nenhuma anomalia detectada.", "2025-03-10T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_GetByID(t *testing.T) {
	repo, mock := newMockJobRepo(t, DialectPostgres)

	rows := sqlmock.NewRows(jobColumns()).
		AddRow("job-1", `["a.xlsx"]`, 2, 10, 6, false, "a.xlsx -> Sheet1 -> Tabela 1: [Idade]", "2025-03-10T12:00:00Z")
	mock.ExpectQuery("SELECT .+ FROM consolidation_jobs WHERE id").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), core.JobID("job-1"))
	require.NoError(t, err)

	assert.Equal(t, core.JobID("job-1"), job.ID)
	assert.Equal(t, []string{"a.xlsx"}, job.FileNames)
	assert.Equal(t, 2, job.TableCount)
	assert.False(t, job.Valid)
	assert.Equal(t, 2025, job.CreatedAt.Time().Year())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockJobRepo(t, DialectSQLite)

	mock.ExpectQuery("SELECT .+ FROM consolidation_jobs WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(jobColumns()))

	_, err := repo.GetByID(context.Background(), core.JobID("missing"))
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_ListRecent(t *testing.T) {
	repo, mock := newMockJobRepo(t, DialectSQLite)

	rows := sqlmock.NewRows(jobColumns()).
		AddRow("job-2", `["c.xlsx"]`, 1, 5, 4, true, "Nenhuma anomalia detectada.", "2025-03-11T08:00:00Z").
		AddRow("job-1", `["a.xlsx"]`, 2, 10, 6, true, "Nenhuma anomalia detectada.", "2025-03-10T12:00:00Z")
	mock.ExpectQuery("SELECT .+ FROM consolidation_jobs ORDER BY created_at DESC").
		WithArgs(25).
		WillReturnRows(rows)

	jobs, err := repo.ListRecent(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, core.JobID("job-2"), jobs[0].ID)
	assert.Equal(t, core.JobID("job-1"), jobs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
