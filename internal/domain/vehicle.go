package domain

import "strings"

const VehicleStatusActive = "active"

var universalMarkers = []string{"универсал", "universal"}

// Vehicle is a capacity- and product-constrained mover based at a demand point.
// It is read-only for the duration of a run.
type Vehicle struct {
	ID       string
	Capacity float64
	Category string
	// Base is the name of the demand point the vehicle starts from.
	Base     string
	Status   string
	Products []string
}

func (v *Vehicle) Active() bool {
	return ProductKey(v.Status) == VehicleStatusActive
}

// ProductKeys returns the normalized capability keys in declaration order,
// without duplicates.
func (v *Vehicle) ProductKeys() []string {
	seen := make(map[string]struct{}, len(v.Products))
	keys := make([]string, 0, len(v.Products))
	for _, p := range v.Products {
		k := ProductKey(p)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Licensed reports whether the vehicle may carry the given product key.
func (v *Vehicle) Licensed(key string) bool {
	for _, p := range v.Products {
		if ProductKey(p) == key {
			return true
		}
	}
	return false
}

// Universal reports whether the vehicle category marks it as a universal type.
func (v *Vehicle) Universal() bool {
	category := ProductKey(v.Category)
	for _, m := range universalMarkers {
		if strings.Contains(category, m) {
			return true
		}
	}
	return false
}
