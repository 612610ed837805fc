package store

import (
	"fmt"
	"strings"
)

// Filter narrows and pages a job listing query.
type Filter struct {
	Source          string
	ExperienceLevel string
	JobType         string
	Location        string // substring, case-insensitive
	Search          string // free text over title/company/description
	Page            int
	Limit           int
	SortBy          string // createdAt (default), postedDate, title, company
	SortOrder       string // asc or desc (default)
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// sortColumns whitelists sortable fields; anything else falls back to
// created_at so request input never reaches the SQL string.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"postedDate": "posted_date",
	"title":      "title",
	"company":    "company",
}

func (f Filter) normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

// whereClause builds the WHERE fragment and its arguments. Only the SQL for
// present filters is emitted; values are always passed as parameters.
func (f Filter) whereClause() (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	if f.ExperienceLevel != "" {
		add("experience_level = $%d", f.ExperienceLevel)
	}
	if f.JobType != "" {
		add("job_type = $%d", f.JobType)
	}
	if f.Location != "" {
		add("location ILIKE $%d", "%"+f.Location+"%")
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildListQuery(f Filter) (string, []any) {
	where, args := f.whereClause()

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	sql := fmt.Sprintf(
		"SELECT %s FROM jobs%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		jobColumns, where, col, dir, len(args)-1, len(args),
	)
	return sql, args
}

func buildCountQuery(f Filter) (string, []any) {
	where, args := f.whereClause()
	return "SELECT count(*) FROM jobs" + where, args
}
