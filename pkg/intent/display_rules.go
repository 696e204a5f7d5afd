package intent

// Product is the product snapshot a display-rule check runs against.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Category string  `json:"category,omitempty"`
	Stock    int     `json:"stock,omitempty"`
}

// DisplayRules scope where a widget may appear. Nil price bounds and empty
// lists mean unconstrained.
type DisplayRules struct {
	MinPrice         *float64 `json:"minPrice,omitempty"`
	MaxPrice         *float64 `json:"maxPrice,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	ExcludedProducts []string `json:"excludedProducts,omitempty"`
	DeviceTypes      []string `json:"deviceTypes,omitempty"`
	GeoLocations     []string `json:"geoLocations,omitempty"`
}

// EvaluateDisplayRules reports whether a widget is eligible for the given
// product and device. The live poll path does not call this: widgets are
// trusted to be pre-scoped per intent there, and only the widget test and
// preview flows apply the filters.
func EvaluateDisplayRules(rules *DisplayRules, product Product, deviceType string) bool {
	if rules == nil {
		return true
	}

	if rules.MinPrice != nil && product.Price < *rules.MinPrice {
		return false
	}
	if rules.MaxPrice != nil && product.Price > *rules.MaxPrice {
		return false
	}

	if len(rules.Categories) > 0 && !contains(rules.Categories, product.Category) {
		return false
	}

	if contains(rules.ExcludedProducts, product.ID) {
		return false
	}

	if len(rules.DeviceTypes) > 0 && !contains(rules.DeviceTypes, deviceType) {
		return false
	}

	return true
}

func contains(list []string, target string) bool {
	if target == "" {
		return false
	}
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
