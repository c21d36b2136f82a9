package panels

import (
	"sort"

	"centremart/models"
)

// SortByRank orders categories by their admin-set rank, then name
func SortByRank(cats []models.Category) []models.Category {
	out := append([]models.Category(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}
