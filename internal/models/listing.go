package models

// ListParams are the query parameters accepted by listing endpoints
type ListParams struct {
	Search    string `form:"search" binding:"max=200"`
	Field     string `form:"field"`
	Status    string `form:"status"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
