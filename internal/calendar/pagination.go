package calendar

// DefaultPageSize используется, когда размер страницы не задан.
const DefaultPageSize = 50

// Page — одна страница результата.
type Page[T any] struct {
	Items    []T
	Page     int // с 1
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

// Pages — общее число страниц.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return pageCount(p.Total, p.PageSize)
}

func pageCount(total, pageSize int) int {
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Paginate вырезает страницу page из items. Некорректные page и pageSize
// заменяются на 1 и DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	// Сравнение по номеру страницы не переполняется при огромных page*pageSize.
	start := total
	if page-1 < pageCount(total, pageSize) {
		start = (page - 1) * pageSize
	}
	end := start + min(pageSize, total-start)

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
