package services

import "resto-dashboard/internal/models"

// Filter returns the records matching every condition of the selection,
// preserving input order. Rows whose Year is null never match the year
// range. A facet with an empty selection set is not filtered at all, so
// selecting nothing behaves like selecting everything for that facet.
func Filter(records []models.EnrichedRecord, sel models.FilterSelection) []models.EnrichedRecord {
	countries := asSet(sel.Countries)
	cities := asSet(sel.Cities)
	restaurants := asSet(sel.Restaurants)

	out := make([]models.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		if rec.Year == nil || *rec.Year < sel.YearFrom || *rec.Year > sel.YearTo {
			continue
		}
		if !inSet(countries, rec.Country) {
			continue
		}
		if !inSet(cities, rec.City) {
			continue
		}
		if !inSet(restaurants, rec.RestaurantName) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func asSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as "facet unfiltered". A nil value only matches
// when the facet is unfiltered, mirroring how the join leaves unmatched
// location columns null.
func inSet(set map[string]struct{}, value *string) bool {
	if set == nil {
		return true
	}
	if value == nil {
		return false
	}
	_, ok := set[*value]
	return ok
}
