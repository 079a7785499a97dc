package timeutil

import (
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// FormatIST formats a time in IST using the given layout
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// ParseDate parses a YYYY-MM-DD string as midnight IST
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), IST)
}

// NormalizeMonth accepts an English month name or its three letter
// abbreviation in any case and returns the full title-case name.
func NormalizeMonth(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) < 3 {
		return "", false
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		lower := strings.ToLower(name)
		if v == lower || v == lower[:3] {
			return name, true
		}
	}
	return "", false
}

// ValidYear bounds the payment bucket year
func ValidYear(year int) bool {
	return year >= 2000 && year <= 2100
}

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
)
