package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestFind_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormViewRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "seller_id", "view", "columns", "sort", "per_page", "created_at", "updated_at"}).
		AddRow(1, "seller-1", "sales", "amount,date", "amount_desc", 25, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dashboard_views" WHERE seller_id = $1 AND view = $2`)).
		WillReturnRows(rows)

	view, err := repo.Find(context.Background(), "seller-1", models.DashboardSales)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, []string{"amount", "date"}, view.ColumnList())
	assert.Equal(t, "amount_desc", view.Sort)
	assert.Equal(t, 25, view.PerPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormViewRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dashboard_views"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	view, err := repo.Find(context.Background(), "seller-1", models.DashboardProducts)
	assert.NoError(t, err)
	assert.Nil(t, view)
}

func TestUpsert_OnConflict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormViewRepository(gormDB)

	view := &models.DashboardView{SellerID: "seller-1", Kind: models.DashboardProducts, Sort: "price_asc", PerPage: 50}
	view.SetColumns([]string{"name", "price"})

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "dashboard_views"`) + `.*ON CONFLICT \("seller_id","view"\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), view))
	assert.Equal(t, uint(7), view.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormViewRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "dashboard_views" WHERE seller_id = $1 AND view = $2`)).
		WithArgs("seller-1", models.DashboardSales).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), "seller-1", models.DashboardSales))
}
