package dto

// PageResponse represents a paginated list with 1-based page numbering.
type PageResponse struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements" example:"42"`
	TotalPages    int         `json:"totalPages" example:"5"`
	PageNumber    int         `json:"pageNumber" example:"1"`
	PageSize      int         `json:"pageSize" example:"10"`
	HasNext       bool        `json:"hasNext" example:"true"`
	HasPrevious   bool        `json:"hasPrevious" example:"false"`
}

// NewPageResponse builds a PageResponse from a content slice and paging facts.
func NewPageResponse(content interface{}, totalElements int64, page, size, totalPages int) PageResponse {
	return PageResponse{
		Content:       content,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		PageNumber:    page,
		PageSize:      size,
		HasNext:       page < totalPages,
		HasPrevious:   page > 1 && totalPages > 0,
	}
}
