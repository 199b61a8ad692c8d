package netnutrition

import (
	"fmt"
	"time"

	"campusdining-backend/lib/timezone"
)

const ReasonNoRow = "could not find today's row"

// AvailabilityStatus is the "is it open right now" answer for one
// facility. IsOpen is nil when the answer could not be determined,
// which is distinct from a confirmed closed.
type AvailabilityStatus struct {
	IsOpen *bool  `json:"isOpen"`
	Reason string `json:"reason"`
	Hours  string `json:"hours,omitempty"`
}

func determined(isOpen bool, reason, hours string) AvailabilityStatus {
	return AvailabilityStatus{IsOpen: &isOpen, Reason: reason, Hours: hours}
}

func Indeterminate(reason string) AvailabilityStatus {
	return AvailabilityStatus{Reason: reason}
}

// StatusForNow resolves today's row out of the weekly table and
// evaluates it against the current wall clock.
//
// windows that cross midnight (open late night, close the next
// morning) are not representable: close minutes never exceed 1439, so
// such a row evaluates closed during the early-morning span. the
// portal has never published one so far.
func StatusForNow(week WeeklyHours, now time.Time) AvailabilityStatus {
	local := now.In(timezone.Location)
	day, ok := week.ForDay(local.Weekday().String())
	if !ok {
		return Indeterminate(ReasonNoRow)
	}

	switch day.Kind {
	case RowClosed:
		return determined(false, fmt.Sprintf("%s class", day.Marker), "")
	case RowOpen:
		if day.Open == nil || day.Close == nil {
			status := Indeterminate("could not parse posted hours")
			status.Hours = day.Text
			return status
		}
		hours := fmt.Sprintf(
			"%s - %s",
			FormatClockTime(*day.Open),
			FormatClockTime(*day.Close),
		)
		current := timezone.MinuteOfDay(local)
		if current >= *day.Open && current <= *day.Close {
			return determined(true, "within posted hours", hours)
		}
		return determined(false, "outside posted hours", hours)
	}

	return Indeterminate("unrecognized row marker")
}
