package entity

const (
	maxPageLimit     = 50
	defaultPageLimit = 20
)

type PaginationInput struct {
	Limit  int
	Offset int
}

// NewPaginationInput clamps the page window: a zero or negative limit falls
// back to the default, anything above the cap is cut to it.
func NewPaginationInput(limit int, offset int) *PaginationInput {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return &PaginationInput{
		Limit:  limit,
		Offset: offset,
	}
}
