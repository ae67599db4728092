package resume

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Precision is how much of a date was given.
type Precision uint8

const (
	Year Precision = iota + 1
	Month
	Day
)

// Date is a partial calendar date. The zero Date means "present".
type Date struct {
	time.Time
	Precision Precision
}

// IsZero reports whether d is the open end of a range.
func (d Date) IsZero() bool { return d.Precision == 0 }

// ParseDate parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". An empty string is
// the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, f := range []struct {
		layout string
		p      Precision
	}{{"2006", Year}, {"2006-01", Month}, {"2006-01-02", Day}} {
		if t, err := time.Parse(f.layout, s); err == nil {
			return Date{Time: t, Precision: f.p}, nil
		}
	}
	return Date{}, fmt.Errorf("date %q is not YYYY, YYYY-MM or YYYY-MM-DD", s)
}

// Supported locales. The first is the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Dutch,
}

var matcher = language.NewMatcher(supported)

// Locale returns the supported tag closest to the BCP 47 tag s. Unknown or
// malformed tags fall back to en-US.
func Locale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return supported[0]
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return supported[0]
	}
	return supported[i]
}

type calendar struct {
	months  [12]string
	present string
	// layout joins a month name and a year.
	layout func(month, year string) string
}

func monthYear(month, year string) string { return month + " " + year }

var calendars = map[string]calendar{
	"en": {
		months:  [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		present: "Present",
		layout:  monthYear,
	},
	"de": {
		months:  [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		present: "heute",
		layout:  monthYear,
	},
	"fr": {
		months:  [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		present: "aujourd'hui",
		layout:  monthYear,
	},
	"es": {
		months:  [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		present: "actualidad",
		layout:  func(month, year string) string { return month + " de " + year },
	},
	"nl": {
		months:  [12]string{"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
		present: "heden",
		layout:  monthYear,
	},
}

func calendarFor(tag language.Tag) calendar {
	base, _ := Locale(tag.String()).Base()
	if c, ok := calendars[base.String()]; ok {
		return c
	}
	return calendars["en"]
}

// FormatDate renders d for tag, down to the month when withMonth is set
// and the date has one. The zero Date renders as the locale's "present".
func FormatDate(d Date, tag language.Tag, withMonth bool) string {
	c := calendarFor(tag)
	if d.IsZero() {
		return c.present
	}
	year := fmt.Sprint(d.Year())
	if !withMonth || d.Precision < Month {
		return year
	}
	return c.layout(c.months[d.Month()-1], year)
}
