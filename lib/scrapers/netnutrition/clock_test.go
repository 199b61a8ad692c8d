package netnutrition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{text: "12:00 AM", expected: 0},
		{text: "12:00 PM", expected: 720},
		{text: "11:30 PM", expected: 1410},
		{text: "11:00 AM", expected: 660},
		{text: "9:00 PM", expected: 1260},
		{text: "1:05 am", expected: 65},
		{text: "  7:30 AM  ", expected: 450},
	}

	for _, test := range testCases {
		minute, ok := ParseClockTime(test.text)
		require.True(t, ok, "text: %q", test.text)
		require.Equal(t, test.expected, minute, "text: %q", test.text)
	}
}

func TestParseClockTimeRejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"noon",
		"13:00 PM",
		"0:30 AM",
		"23:00",
		"11:60 PM",
		"11:00AM - 9:00PM",
	}
	for _, text := range malformed {
		_, ok := ParseClockTime(text)
		require.False(t, ok, "text: %q", text)
	}
}

func TestFormatClockTime(t *testing.T) {
	testCases := []struct {
		minute   int
		expected string
	}{
		{minute: 0, expected: "12:00 AM"},
		{minute: 720, expected: "12:00 PM"},
		{minute: 660, expected: "11:00 AM"},
		{minute: 1410, expected: "11:30 PM"},
		{minute: 65, expected: "1:05 AM"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, FormatClockTime(test.minute))
	}
}
