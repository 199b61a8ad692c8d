package netnutrition

import (
	"strings"

	"campusdining-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/netnutrition")

// the portal encodes a row's closed/open semantics purely in its CSS
// class, there is no cleaner signal in the markup
const (
	DefaultClosedMarkerClass = "cbo_nn_closedHours"
	DefaultOpenMarkerClass   = "cbo_nn_openHours"
)

type RowKind int

const (
	RowUnrecognized RowKind = iota
	RowClosed
	RowOpen
)

// RowClassifier decides what a schedule row means. it exists so that
// an upstream markup change only touches the classifier, not the
// parsing pipeline.
type RowClassifier interface {
	Classify(row *goquery.Selection) (RowKind, string)
}

type markerClassifier struct {
	closedClass string
	openClass   string
}

// NewMarkerClassifier classifies rows by the CSS marker classes the
// portal styles them with. the returned marker string is the class
// that matched, kept for diagnostics.
func NewMarkerClassifier(closedClass, openClass string) RowClassifier {
	if closedClass == "" {
		closedClass = DefaultClosedMarkerClass
	}
	if openClass == "" {
		openClass = DefaultOpenMarkerClass
	}
	return markerClassifier{closedClass: closedClass, openClass: openClass}
}

func (c markerClassifier) Classify(row *goquery.Selection) (RowKind, string) {
	if row.HasClass(c.closedClass) {
		return RowClosed, c.closedClass
	}
	if row.HasClass(c.openClass) {
		return RowOpen, c.openClass
	}
	return RowUnrecognized, ""
}

// DayHours is one parsed row of the weekly hours table. Open/Close
// are minutes since midnight and are only set when the row carried
// the open marker and both time cells parsed.
type DayHours struct {
	Day    string
	Kind   RowKind
	Marker string
	Open   *int
	Close  *int
	// raw text of the time cells, kept even when parsing fails so
	// callers can surface what the portal actually published
	Text string
}

// WeeklyHours holds up to seven rows keyed by day name. duplicate day
// rows are dropped, the first occurrence wins.
type WeeklyHours struct {
	Days []DayHours
}

func (w WeeklyHours) ForDay(name string) (DayHours, bool) {
	for _, d := range w.Days {
		if d.Day == name {
			return d, true
		}
	}
	return DayHours{}, false
}

// ParseWeeklyHours parses the HTML fragment returned by the portal's
// hours-of-operation endpoint. rows whose first cell is empty are
// skipped, everything else is kept with its classified kind, day name
// matching stays exact and case-sensitive to the source.
func ParseWeeklyHours(fragment string, classifier RowClassifier) (WeeklyHours, error) {
	if classifier == nil {
		classifier = NewMarkerClassifier("", "")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return WeeklyHours{}, err
	}

	var week WeeklyHours
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		day, ok := htmlutil.CellText(row, 0)
		if !ok || day == "" {
			return
		}
		if _, seen := week.ForDay(day); seen {
			return
		}

		kind, marker := classifier.Classify(row)
		entry := DayHours{
			Day:    day,
			Kind:   kind,
			Marker: marker,
		}

		if kind == RowOpen {
			openText, _ := htmlutil.CellText(row, 1)
			closeText, _ := htmlutil.CellText(row, 2)
			entry.Text = strings.Trim(openText+" - "+closeText, " -")

			openMinute, openOk := ParseClockTime(openText)
			closeMinute, closeOk := ParseClockTime(closeText)
			if openOk && closeOk {
				entry.Open = &openMinute
				entry.Close = &closeMinute
			}
		}

		week.Days = append(week.Days, entry)
	})

	return week, nil
}
