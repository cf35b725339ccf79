package tracker

import (
	"sort"

	"jobmindr/internal/models"
)

// CompanyNames lists the distinct company names for the filter dropdown.
func CompanyNames(apps []models.JobApplication) []string {
	seen := make(map[string]struct{}, len(apps))
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		if _, ok := seen[app.CompanyName]; ok {
			continue
		}
		seen[app.CompanyName] = struct{}{}
		names = append(names, app.CompanyName)
	}
	sort.Strings(names)
	return names
}
