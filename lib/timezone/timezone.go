package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force timezone to be campus-local because our servers sometimes
// end up in other regions, which skews everything derived from
// <time.Time>.Weekday()/Hour()/Minute()
func Now() time.Time {
	return time.Now().In(Location)
}

// MinuteOfDay returns minutes since local midnight (0-1439).
func MinuteOfDay(t time.Time) int {
	local := t.In(Location)
	return local.Hour()*60 + local.Minute()
}
