package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	"github.com/vfg2006/ga4-pageviews-etl/internal/domain"
)

const testTable = "Test.Subaru.ga4_qr_codes"

var insertSQLServer = regexp.QuoteMeta(
	"INSERT INTO [Test].[Subaru].[ga4_qr_codes] ([Date],[Page_title],[Device_brand],[Country],[State],[City],[Views]) VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7)")

func sampleTable() domain.AnalyticsTable {
	return domain.AnalyticsTable{
		{Date: "20240101", PageTitle: "Home", DeviceBrand: "Apple", Country: "United States", State: "California", City: "San Jose", Views: "10"},
		{Date: "20240101", PageTitle: "Offers", DeviceBrand: "Samsung", Country: "United States", State: "Texas", City: "Austin", Views: "4"},
		{Date: "20240102", PageTitle: "Home", DeviceBrand: "Google", Country: "Brazil", State: "Sao Paulo", City: "Campinas", Views: "7"},
	}
}

func mockOpener(t *testing.T) (sqldb.Opener, sqlmock.Sqlmock, *int) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	opened := 0
	return func(context.Context) (sqldb.Conn, error) {
		opened++
		return sqldb.NewWithDB(db, sqldb.SQLServer), nil
	}, mock, &opened
}

func TestPageViewRepository_InsertBatch(t *testing.T) {
	open, mock, opened := mockOpener(t)
	repo := NewPageViewRepository(open, testTable)

	mock.ExpectBegin()
	for _, r := range sampleTable() {
		values, err := r.Values()
		require.NoError(t, err)

		args := make([]driver.Value, 0, len(values))
		for _, v := range values {
			args = append(args, v)
		}
		mock.ExpectExec(insertSQLServer).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
	mock.ExpectClose()

	inserted, err := repo.InsertBatch(context.Background(), sampleTable())
	require.NoError(t, err)

	assert.Equal(t, int64(3), inserted)
	assert.Equal(t, 1, *opened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_InsertBatch_RowFailure(t *testing.T) {
	open, mock, _ := mockOpener(t)
	repo := NewPageViewRepository(open, testTable)

	dbErr := errors.New("String or binary data would be truncated")

	mock.ExpectBegin()
	mock.ExpectExec(insertSQLServer).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertSQLServer).WillReturnError(dbErr)
	mock.ExpectRollback()
	mock.ExpectClose()

	inserted, err := repo.InsertBatch(context.Background(), sampleTable())
	require.Error(t, err)
	assert.Zero(t, inserted)

	assert.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.ErrorIs(t, err, dbErr)

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 1, loadErr.Row)
	assert.Equal(t, testTable, loadErr.Table)
	require.NotNil(t, loadErr.Record)
	assert.Equal(t, "Austin", loadErr.Record.City)
	assert.Contains(t, err.Error(), `city="Austin"`)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_InsertBatch_InvalidViews(t *testing.T) {
	open, mock, _ := mockOpener(t)
	repo := NewPageViewRepository(open, testTable)

	table := sampleTable()
	table[2].Views = "n/a"

	mock.ExpectBegin()
	mock.ExpectExec(insertSQLServer).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertSQLServer).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := repo.InsertBatch(context.Background(), table)

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_InsertBatch_Empty(t *testing.T) {
	open, mock, _ := mockOpener(t)
	repo := NewPageViewRepository(open, testTable)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectClose()

	inserted, err := repo.InsertBatch(context.Background(), domain.AnalyticsTable{})
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_InsertBatch_CommitFailure(t *testing.T) {
	open, mock, _ := mockOpener(t)
	repo := NewPageViewRepository(open, testTable)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQLServer).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))
	mock.ExpectClose()

	_, err := repo.InsertBatch(context.Background(), sampleTable()[:1])

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, -1, loadErr.Row)
	assert.Nil(t, loadErr.Record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageViewRepository_InsertBatch_ConnectFailure(t *testing.T) {
	connErr := errors.New("login failed")
	repo := NewPageViewRepository(func(context.Context) (sqldb.Conn, error) {
		return nil, connErr
	}, testTable)

	_, err := repo.InsertBatch(context.Background(), sampleTable())
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.ErrorIs(t, err, connErr)
}

func newSQLiteRepo(t *testing.T) (PageViewRepository, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pageviews.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE ga4_qr_codes (
		Date TEXT NOT NULL,
		Page_title TEXT,
		Device_brand TEXT,
		Country TEXT,
		State TEXT,
		City TEXT,
		Views INTEGER NOT NULL CHECK (Views >= 0)
	)`)
	require.NoError(t, err)

	cfg := config.Database{Driver: config.DriverSQLite, Name: path, DSN: path, Table: testTable}
	return NewPageViewRepository(sqldb.NewOpener(cfg), cfg.Table), db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ga4_qr_codes").Scan(&count))
	return count
}

func TestPageViewRepository_SQLite(t *testing.T) {
	repo, db := newSQLiteRepo(t)

	inserted, err := repo.InsertBatch(context.Background(), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)
	assert.Equal(t, 3, countRows(t, db))

	var views int64
	require.NoError(t, db.QueryRow("SELECT Views FROM ga4_qr_codes WHERE City = ?", "Campinas").Scan(&views))
	assert.Equal(t, int64(7), views)

	// Sem deduplicação: uma segunda carga duplica as linhas
	_, err = repo.InsertBatch(context.Background(), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, 6, countRows(t, db))
}

func TestPageViewRepository_SQLite_AllOrNothing(t *testing.T) {
	repo, db := newSQLiteRepo(t)

	table := sampleTable()
	table[2].Views = "-1"

	_, err := repo.InsertBatch(context.Background(), table)

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Row)
	assert.Equal(t, 0, countRows(t, db))
}
