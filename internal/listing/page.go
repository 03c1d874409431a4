package listing

// Page is one fetched slice of a larger record set. It is replaced wholesale
// on the next successful fetch.
type Page[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	LastPage    int
}

// LastPageFor returns max(1, ceil(total/pageSize))
func LastPageFor(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	last := (total + pageSize - 1) / pageSize
	if last < 1 {
		return 1
	}
	return last
}

// ClampPage keeps page within [1, lastPage]
func ClampPage(page, lastPage int) int {
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		return 1
	}
	if page > lastPage {
		return lastPage
	}
	return page
}

// NewPage normalises a server response against the requested page size
func NewPage[T any](items []T, total, currentPage, pageSize int) Page[T] {
	if pageSize > 0 && len(items) > pageSize {
		items = items[:pageSize]
	}
	if total < len(items) {
		total = len(items)
	}
	last := LastPageFor(total, pageSize)
	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: ClampPage(currentPage, last),
		LastPage:    last,
	}
}

// Range returns the 1-based index of the first and last item shown, or 0,0
// for an empty page
func (p Page[T]) Range(pageSize int) (int, int) {
	if len(p.Items) == 0 {
		return 0, 0
	}
	first := (p.CurrentPage-1)*pageSize + 1
	return first, first + len(p.Items) - 1
}
