/*
evaluator.go - Departure availability verdict

PURPOSE:
  Answers "can this vehicle + guide + date combination be scheduled?" for
  the booking flow. Submission is only allowed when the verdict is not
  conflicted.

ALGORITHM:
  1. Overlaps: per resource, every overlapping pair of vehicle blocks adds
     "Vehicle schedule conflict"; of guide blocks, "Guide schedule conflict".
  2. Daily hours: per guide, hours starting on the check date above the
     threshold (default 10h) add a reason naming the guide.
  3. Capacity: sold-out / low / available.
  4. Any reason from 1-2 makes the status conflicted, whatever the capacity.

FEATURE TOGGLE:
  With resource availability off, steps 1-2 are skipped and the status is
  the capacity classification alone. No conflicts are reported.

SEE ALSO:
  - overlap.go: FindOverlapConflicts
  - hours.go: FindHoursViolations
  - capacity.go: EvaluateCapacity
*/
package availability

import (
	"github.com/warp/tour-engine/generic"
)

// CheckDepartureAvailability evaluates one departure. It never fails for
// well-typed input.
func CheckDepartureAvailability(in DepartureCheckInput, features generic.Features) Result {
	capacity := EvaluateCapacity(in.Capacity)
	result := Result{Status: capacity, Capacity: capacity, Conflicts: []string{}}

	if !features.ResourceAvailability {
		return result
	}

	for _, group := range []struct {
		kind        ResourceKind
		assignments []ResourceAssignment
	}{
		{KindVehicle, in.Vehicles},
		{KindGuide, in.Guides},
	} {
		overlaps := FindOverlapConflicts(group.kind, group.assignments)
		if len(overlaps) > 0 {
			result.Overlaps = append(result.Overlaps, overlaps...)
			result.Conflicts = append(result.Conflicts, reasonFor(group.kind))
		}
	}

	result.HoursViolations = FindHoursViolations(in.Date, in.Guides, in.maxDailyHours())
	for _, v := range result.HoursViolations {
		result.Conflicts = append(result.Conflicts, v.Reason())
	}

	if len(result.Conflicts) > 0 {
		result.Status = StatusConflicted
	}
	return result
}
