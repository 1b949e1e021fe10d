package util

// Page is a validated window into an ordered result set.
type Page struct {
	Number  int
	PerPage int
	Offset  int
}

// NewPage validates page and perPage. perPage is clamped to PerPageLimit and
// the offset to MaxOffset.
func NewPage(page, perPage int) (Page, error) {
	if page < 1 {
		return Page{}, NotFoundf("page not found")
	}
	if perPage < 1 {
		return Page{}, BadRequestf("per_page must be positive")
	}
	perPage = min(perPage, PerPageLimit, MaxOffset)
	// compare before multiplying, page may be large enough to overflow
	offset := MaxOffset
	if page-1 <= MaxOffset/perPage {
		offset = min((page-1)*perPage, MaxOffset)
	}
	return Page{Number: page, PerPage: perPage, Offset: offset}, nil
}

// PageResponse is the data of a paginated reply.
type PageResponse struct {
	List    interface{} `json:"list"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}
