package livestock

import (
	"sort"
	"strings"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
)

// SearchLivestock keeps items whose name, category, breed or type contains
// query (case-insensitive). A non-empty location must also be contained in
// the item's location. An empty query matches everything; order is preserved.
func SearchLivestock(items []model.LivestockItem, query, location string) []model.LivestockItem {
	q := strings.ToLower(query)
	loc := strings.ToLower(location)

	result := make([]model.LivestockItem, 0)
	for _, item := range items {
		if !matchesQuery(item, q) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(item.Location), loc) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func matchesQuery(item model.LivestockItem, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{item.Name, item.Category, item.Details.Breed, item.Details.Type} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FeaturedLivestock returns up to constant.FeaturedLimit verified items,
// those flagged as featured first.
func FeaturedLivestock(items []model.LivestockItem) []model.LivestockItem {
	verified := make([]model.LivestockItem, 0, len(items))
	for _, item := range items {
		if item.Verified {
			verified = append(verified, item)
		}
	}
	sort.SliceStable(verified, func(i, j int) bool {
		return verified[i].Featured && !verified[j].Featured
	})
	if len(verified) > constant.FeaturedLimit {
		verified = verified[:constant.FeaturedLimit]
	}
	return verified
}

func LivestockByCategory(items []model.LivestockItem, category string) []model.LivestockItem {
	result := make([]model.LivestockItem, 0)
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			result = append(result, item)
		}
	}
	return result
}
