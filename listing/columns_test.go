package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns(models.DashboardSales, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultColumns(models.DashboardSales), cols)

	cols, err = ParseColumns(models.DashboardSales, []string{"Amount, date", "amount", " buyer "})
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "date", "buyer"}, cols)

	_, err = ParseColumns(models.DashboardProducts, []string{"amount"})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ParseColumns("orders", []string{"id"})
	assert.Error(t, err)
}

func TestDefaultColumns_ReturnsCopy(t *testing.T) {
	cols := DefaultColumns(models.DashboardProducts)
	cols[0] = "mutated"
	assert.Equal(t, "name", DefaultColumns(models.DashboardProducts)[0])
}

func TestProjectSales_OnlyVisibleColumns(t *testing.T) {
	rows := ProjectSales(sampleSales()[:1], []string{"amount", "date"})
	require.Len(t, rows, 1)
	assert.Equal(t, Row{"id": "s1", "amount": 20.0, "date": "2024-03-01T12:00:00Z"}, rows[0])
}

func TestProjectProducts(t *testing.T) {
	rows := ProjectProducts(sampleProducts()[1:2], []string{"name", "stock", "status"})
	assert.Equal(t, []Row{{"id": "p2", "name": "Blue Mug", "stock": 0, "status": models.ProductActive}}, rows)
}

func TestColumnsFor_KeepsOrder(t *testing.T) {
	cols := ColumnsFor(models.DashboardProducts, []string{"price", "name"})
	assert.Equal(t, []Column{{Key: "price", Label: "Price"}, {Key: "name", Label: "Name"}}, cols)
}
