package netnutrition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)

// ParseClockTime converts the portal's "H:MM AM" hour cells into
// minutes since midnight (0-1439). 12 AM maps to hour 0 and 12 PM
// stays 12. anything else ("noon", 24-hour input, empty cells)
// reports !ok.
func ParseClockTime(text string) (int, bool) {
	text = strings.ToUpper(strings.Trim(text, " \t\n"))
	groups := clockRegex.FindStringSubmatch(text)
	if len(groups) < 4 {
		return 0, false
	}

	hour, err := strconv.Atoi(groups[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(groups[2])
	if err != nil || minute > 59 {
		return 0, false
	}

	if hour == 12 {
		hour = 0
	}
	if groups[3] == "PM" {
		hour += 12
	}
	return hour*60 + minute, true
}

// FormatClockTime is the inverse of ParseClockTime, used for the
// display string handed back alongside open/closed booleans.
func FormatClockTime(minute int) string {
	hour := minute / 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute%60, meridiem)
}
