// Package listing holds the derived-state engine behind the seller
// dashboards: filter a fetched list, sort it, cut one page out of it and
// project the visible columns.
package listing

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is one slice of a filtered, sorted list plus the meta a table needs
// to render its pager.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// Meta is Page without its items.
type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

func (p Page[T]) Meta() Meta {
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasMore:    p.HasMore,
	}
}

// NormalizePage clamps page to >= 1 and perPage to [1, MaxPerPage], using
// DefaultPerPage when perPage is unset.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Paginate returns the requested page of items. A page past the end yields
// no items but still reports the real totals. Items is never nil.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	page, perPage = NormalizePage(page, perPage)
	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	out := Page[T]{
		Items:      []T{},
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}

	// page is caller-controlled; compare before multiplying so a huge value
	// cannot overflow the offset.
	if page > totalPages {
		return out
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}
