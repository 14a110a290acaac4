// Package listing filters, orders and paginates in-memory collections for display
package listing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Paging defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// StatusAll disables status filtering
const StatusAll = "all"

// DateLayout is the wire format of StartDate and EndDate
const DateLayout = "2006-01-02"

// ErrUnknownField indicates the search field is not searchable on the collection
var ErrUnknownField = errors.New("unknown search field")

// Item is a record that can be listed. List validates the search field by
// calling FieldValue on the zero value, so implementations should be value types.
type Item interface {
	// FieldValue returns the text of a searchable field and false when the
	// collection has no such field
	FieldValue(field string) (string, bool)
	ItemStatus() string
	CreatedTime() time.Time
	// ItemKey orders items created at the same instant
	ItemKey() string
}

// Date is a calendar day without a time of day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// midnight returns the first instant of the day in loc
func (d Date) midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Query describes one listing request
type Query struct {
	SearchTerm  string
	SearchField string
	// StatusFilter keeps only items with this exact status; "" and "all" keep everything
	StatusFilter string
	// StartDate and EndDate bound the creation day inclusively. The range
	// applies only when both are set.
	StartDate Date
	EndDate   Date
	// Location is the timezone the dates are interpreted in; nil means UTC
	Location *time.Location
	Page     int
	PageSize int
}

// Page is one slice of a filtered, ordered collection
type Page[T Item] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
}

// Normalized returns q with paging defaults applied and the page size capped
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Location == nil {
		q.Location = time.UTC
	}
	return q
}

// Next returns next with the page reset to the first one when the page size
// or any filter differs from q
func (q Query) Next(next Query) Query {
	if q.PageSize != next.PageSize || !q.sameFilters(next) {
		next.Page = DefaultPage
	}
	return next
}

func (q Query) sameFilters(o Query) bool {
	return q.SearchTerm == o.SearchTerm &&
		q.SearchField == o.SearchField &&
		q.StatusFilter == o.StatusFilter &&
		q.StartDate == o.StartDate &&
		q.EndDate == o.EndDate &&
		q.Location.String() == o.Location.String()
}

// List filters items by search term, status and creation day, orders them
// newest first and returns the requested page. items is not modified.
func List[T Item](items []T, q Query) (Page[T], error) {
	q = q.Normalized()

	var zero T
	if q.SearchField != "" {
		if _, ok := zero.FieldValue(q.SearchField); !ok {
			return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownField, q.SearchField)
		}
	} else if q.SearchTerm != "" {
		return Page[T]{}, fmt.Errorf("%w: search term given without a field", ErrUnknownField)
	}

	term := strings.ToLower(q.SearchTerm)
	status := q.StatusFilter
	if status == StatusAll {
		status = ""
	}

	var from, until time.Time
	dated := !q.StartDate.IsZero() && !q.EndDate.IsZero()
	if dated {
		from = q.StartDate.midnight(q.Location)
		until = q.EndDate.midnight(q.Location).AddDate(0, 0, 1)
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" {
			value, _ := item.FieldValue(q.SearchField)
			if !strings.Contains(strings.ToLower(value), term) {
				continue
			}
		}
		if status != "" && item.ItemStatus() != status {
			continue
		}
		if dated {
			created := item.CreatedTime()
			if created.Before(from) || !created.Before(until) {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	slices.SortStableFunc(filtered, func(a, b T) int {
		if c := b.CreatedTime().Compare(a.CreatedTime()); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemKey(), b.ItemKey())
	})

	total := len(filtered)
	page := Page[T]{
		Items:      []T{},
		TotalCount: total,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}

	if q.Page <= page.TotalPages {
		start := (q.Page - 1) * q.PageSize
		end := min(start+q.PageSize, total)
		page.Items = filtered[start:end:end]
	}

	return page, nil
}
