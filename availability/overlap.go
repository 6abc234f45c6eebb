package availability

import (
	"sort"
)

// Conflict reasons. One reason per kind, however many pairs overlap.
const (
	ReasonVehicleConflict = "Vehicle schedule conflict"
	ReasonGuideConflict   = "Guide schedule conflict"
)

// FindOverlapConflicts groups assignments by resource and reports every pair
// of the same resource whose half-open ranges overlap. Different resources
// never conflict with each other.
func FindOverlapConflicts(kind ResourceKind, assignments []ResourceAssignment) []Overlap {
	byResource := make(map[string][]ResourceAssignment)
	var order []string
	for _, a := range assignments {
		if _, ok := byResource[a.ResourceID]; !ok {
			order = append(order, a.ResourceID)
		}
		byResource[a.ResourceID] = append(byResource[a.ResourceID], a)
	}
	sort.Strings(order)

	var overlaps []Overlap
	for _, resourceID := range order {
		list := append([]ResourceAssignment(nil), byResource[resourceID]...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Start.Before(list[j].Start) })

		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if list[i].Range().Overlaps(list[j].Range()) {
					overlaps = append(overlaps, Overlap{
						Kind:       kind,
						ResourceID: resourceID,
						First:      list[i],
						Second:     list[j],
					})
				}
			}
		}
	}
	return overlaps
}

func reasonFor(kind ResourceKind) string {
	if kind == KindVehicle {
		return ReasonVehicleConflict
	}
	return ReasonGuideConflict
}
