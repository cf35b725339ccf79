package repository

import (
	"fmt"
	"strings"

	"jobmindr/internal/models"
)

var sortColumns = map[models.SortField]string{
	models.SortByCompanyName:       "company_name",
	models.SortByDateApplied:       "date_applied",
	models.SortByApplicationStatus: "application_status",
	models.SortByJobTitle:          "job_title",
}

// predicates accumulates WHERE clauses with their positional arguments.
type predicates struct {
	clauses []string
	args    []interface{}
}

// add appends a clause; format receives the placeholder number.
func (p *predicates) add(format string, arg interface{}) {
	p.args = append(p.args, arg)
	p.clauses = append(p.clauses, fmt.Sprintf(format, len(p.args)))
}

func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildListQuery(filter models.ListFilter, caseSensitive bool) (string, []interface{}, error) {
	var p predicates

	if filter.CompanyName != "" {
		op := "ILIKE"
		if caseSensitive {
			op = "LIKE"
		}
		p.add("company_name "+op+` $%d ESCAPE '\'`, "%"+likeEscaper.Replace(filter.CompanyName)+"%")
	}
	if filter.Status != "" {
		p.add("application_status = $%d", filter.Status)
	}
	if filter.DateApplied != "" {
		date, err := models.ParseDate(filter.DateApplied)
		if err != nil {
			return "", nil, fmt.Errorf("%w: dateApplied: %v", ErrInvalidFilter, err)
		}
		p.add("date_applied = $%d", date)
	}

	field, order := filter.EffectiveSort()
	dir := "DESC"
	if order == models.SortAsc {
		dir = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM job_applications%s ORDER BY %s %s, id %s",
		selectColumns, p.where(), sortColumns[field], dir, dir)
	return query, p.args, nil
}
