package constant

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusReserved  ListingStatus = "reserved"
	ListingStatusSold      ListingStatus = "sold"
)

const (
	// FeaturedLimit caps the featured strip on the home page.
	FeaturedLimit = 6

	CatalogCacheKey = "livestock:catalog"
)
