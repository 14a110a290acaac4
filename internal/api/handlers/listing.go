package handlers

import (
	"errors"
	"net/http"
	"time"

	"boardsite/internal/listing"
	"boardsite/internal/models"

	"github.com/gin-gonic/gin"
)

// bindListQuery reads listing parameters, writing a 400 response on failure
func bindListQuery(c *gin.Context, defaultField string, loc *time.Location) (listing.Query, bool) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return listing.Query{}, false
	}

	start, err := listing.ParseDate(params.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid start_date"})
		return listing.Query{}, false
	}
	end, err := listing.ParseDate(params.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid end_date"})
		return listing.Query{}, false
	}

	field := params.Field
	if field == "" {
		field = defaultField
	}

	return listing.Query{
		SearchTerm:   params.Search,
		SearchField:  field,
		StatusFilter: params.Status,
		StartDate:    start,
		EndDate:      end,
		Location:     loc,
		Page:         params.Page,
		PageSize:     params.PageSize,
	}, true
}

// writePage runs the listing and writes the page or a 400 for an unknown field
func writePage[T listing.Item](c *gin.Context, items []T, q listing.Query) {
	page, err := listing.List(items, q)
	if err != nil {
		if errors.Is(err, listing.ErrUnknownField) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown search field"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list items"})
		return
	}

	c.JSON(http.StatusOK, models.PageResponse[T]{
		Items:      page.Items,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}
