package services

import "resto-dashboard/internal/models"

// Join left-joins transactions to locations on RestaurantKey. Every
// transaction row is kept; rows with no matching location get nil
// Country/City/RestaurantName. Keys are assumed unique in the location
// directory; if duplicates appear, the last occurrence wins.
func Join(transactions []models.TransactionRecord, locations []models.LocationRecord) []models.EnrichedRecord {
	byKey := make(map[string]models.LocationRecord, len(locations))
	for _, loc := range locations {
		byKey[loc.RestaurantKey] = loc
	}

	enriched := make([]models.EnrichedRecord, 0, len(transactions))
	for _, tx := range transactions {
		rec := models.EnrichedRecord{TransactionRecord: tx}
		if loc, ok := byKey[tx.RestaurantKey]; ok {
			rec.Country = &loc.Country
			rec.City = &loc.City
			rec.RestaurantName = &loc.RestaurantName
		}
		enriched = append(enriched, rec)
	}
	return enriched
}
