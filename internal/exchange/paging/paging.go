package paging

// Page is one window of a newest-first listing. Number is 1-based.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
	Pages  int
}

func PagesCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NewestFirst returns a reversed copy of items, which are kept in creation order.
func NewestFirst[T any](items []T) []T {
	res := make([]T, len(items))
	for i, item := range items {
		res[len(items)-1-i] = item
	}
	return res
}

// Slice cuts [(number-1)*size, number*size) out of the newest-first view of
// items. Pages past the end are empty; number is not clamped.
func Slice[T any](items []T, number, size int) Page[T] {
	page := Page[T]{
		Items:  make([]T, 0),
		Number: number,
		Size:   size,
		Total:  len(items),
		Pages:  PagesCount(len(items), size),
	}
	if size <= 0 || number <= 0 || number > page.Pages {
		return page
	}
	start := (number - 1) * size
	end := start + min(size, len(items)-start)
	page.Items = NewestFirst(items)[start:end]
	return page
}

// Clamp keeps number inside [1, pages]; with no pages it returns 1.
func Clamp(number, pages int) int {
	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}
	return number
}
