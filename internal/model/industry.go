package model

// Industry is the market vertical a competitor domain is classified into.
type Industry string

// Supported industries. Classification always yields exactly one of these.
const (
	IndustryEcommerce  Industry = "ecommerce"
	IndustryTechnology Industry = "technology"
	IndustryHealth     Industry = "health"
	IndustryFinance    Industry = "finance"
	IndustryTravel     Industry = "travel"
	IndustryFood       Industry = "food"
	IndustryMedia      Industry = "media"
	IndustryGeneral    Industry = "general"
)

// Industries lists every supported industry in a stable order.
func Industries() []Industry {
	return []Industry{
		IndustryEcommerce,
		IndustryTechnology,
		IndustryHealth,
		IndustryFinance,
		IndustryTravel,
		IndustryFood,
		IndustryMedia,
		IndustryGeneral,
	}
}

// Valid reports whether i is one of the supported industries.
func (i Industry) Valid() bool {
	for _, known := range Industries() {
		if i == known {
			return true
		}
	}
	return false
}

// String returns the industry name.
func (i Industry) String() string {
	return string(i)
}
