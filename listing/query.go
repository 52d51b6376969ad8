package listing

import "github.com/Brutalvik/smartai-shopping-sub000/models"

// SalesQuery is everything needed to turn a raw sales list into one table
// page.
type SalesQuery struct {
	Filter  SaleFilter
	Sort    SortSpec
	Page    int
	PerPage int
	Columns []string
}

// ProductsQuery is the product counterpart of SalesQuery.
type ProductsQuery struct {
	Filter  ProductFilter
	Sort    SortSpec
	Page    int
	PerPage int
	Columns []string
}

// Table is a rendered dashboard page.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Meta    Meta     `json:"meta"`
}

// RunSales filters, then sorts, then paginates, then projects. The input
// slice is not modified. Meta.Total counts the filtered set.
func RunSales(sales []models.Sale, q SalesQuery) (Table, error) {
	if err := q.Filter.Validate(); err != nil {
		return Table{}, err
	}
	filtered := FilterSales(sales, q.Filter)
	if err := SortSales(filtered, q.Sort); err != nil {
		return Table{}, err
	}
	page := Paginate(filtered, q.Page, q.PerPage)
	return Table{
		Columns: ColumnsFor(models.DashboardSales, q.Columns),
		Rows:    ProjectSales(page.Items, q.Columns),
		Meta:    page.Meta(),
	}, nil
}

// RunProducts is RunSales for products.
func RunProducts(products []models.Product, q ProductsQuery) (Table, error) {
	if err := q.Filter.Validate(); err != nil {
		return Table{}, err
	}
	filtered := FilterProducts(products, q.Filter)
	if err := SortProducts(filtered, q.Sort); err != nil {
		return Table{}, err
	}
	page := Paginate(filtered, q.Page, q.PerPage)
	return Table{
		Columns: ColumnsFor(models.DashboardProducts, q.Columns),
		Rows:    ProjectProducts(page.Items, q.Columns),
		Meta:    page.Meta(),
	}, nil
}
