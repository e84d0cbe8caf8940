package repository

import "strings"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized page request shared by list queries.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page and limit to usable values.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// likePattern wraps search for a substring LIKE, escaping its wildcards with
// the backslash escape both MySQL and Postgres default to.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
