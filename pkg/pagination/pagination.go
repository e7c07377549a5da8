package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 20
	// MaxPerPage caps how many rows any listing query can request.
	MaxPerPage = 100
	// MaxPage bounds the page number so offset math stays sane.
	MaxPage = 10000
)

// NormalizePage clamps the page number into [1, MaxPage].
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// NormalizePerPage enforces the default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage < 1 || perPage > MaxPerPage {
		return DefaultPerPage
	}
	return perPage
}

// Offset converts normalized page inputs into a row offset.
func Offset(page, perPage int) int {
	return (NormalizePage(page) - 1) * NormalizePerPage(perPage)
}
