// Package dates turns the date encodings found in commercial exports into a
// canonical YYYY-MM-DD string. The canonical form sorts lexicographically in
// chronological order, which is what the filters and chart series rely on.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	sepRE = regexp.MustCompile(`[/-]`)
	numRE = regexp.MustCompile(`^\d{1,4}$`)
)

// Resolver parses raw date strings. The year fields cover inputs that arrive
// without an explicit year: campaign exports started in December of the
// previous year, so month 12 maps to YearDecember and everything else to
// YearDefault. Both are configuration (see internal/config).
type Resolver struct {
	YearDefault  int
	YearDecember int
}

func NewResolver(yearDefault, yearDecember int) Resolver {
	return Resolver{YearDefault: yearDefault, YearDecember: yearDecember}
}

// Resolve returns the canonical YYYY-MM-DD form of s, or "" when s cannot be
// interpreted. It never returns an error: unresolvable input is an expected
// condition in these files, not a failure.
func (r Resolver) Resolve(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if isoRE.MatchString(s) {
		return s
	}
	if iso := r.resolveRange(s); iso != "" {
		return iso
	}
	return r.resolveTriplet(s)
}

// resolveRange handles textual ranges like "31 AL 05/04": the start day is
// kept, month and year come from the end-of-range token.
func (r Resolver) resolveRange(s string) string {
	upper := strings.ToUpper(s)
	idx := strings.Index(upper, " AL ")
	if idx < 0 {
		return ""
	}
	startDay := strings.TrimSpace(s[:idx])
	if !numRE.MatchString(startDay) {
		return ""
	}
	day, _ := strconv.Atoi(startDay)

	end := sepRE.Split(strings.TrimSpace(s[idx+4:]), -1)
	if len(end) < 2 || !numRE.MatchString(end[1]) {
		return ""
	}
	month, _ := strconv.Atoi(end[1])
	year := 0
	if len(end) >= 3 && numRE.MatchString(end[2]) {
		year = fullYear(end[2])
	} else {
		year = r.inferYear(month)
	}
	return compose(year, month, day)
}

// resolveTriplet handles separator-delimited dates: a 4-digit first token
// means year-first (Y-M-D), anything else is day-first (D-M-Y). Two tokens
// mean the year is missing and gets inferred.
func (r Resolver) resolveTriplet(s string) string {
	parts := sepRE.Split(s, -1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if !numRE.MatchString(parts[i]) {
			return ""
		}
	}
	switch len(parts) {
	case 3:
		if len(parts[0]) == 4 {
			y, _ := strconv.Atoi(parts[0])
			m, _ := strconv.Atoi(parts[1])
			d, _ := strconv.Atoi(parts[2])
			return compose(y, m, d)
		}
		d, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		return compose(fullYear(parts[2]), m, d)
	case 2:
		d, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		return compose(r.inferYear(m), m, d)
	}
	return ""
}

func (r Resolver) inferYear(month int) int {
	if month == 12 {
		return r.YearDecember
	}
	return r.YearDefault
}

func fullYear(tok string) int {
	y, _ := strconv.Atoi(tok)
	if len(tok) == 2 {
		return 2000 + y
	}
	return y
}

func compose(year, month, day int) string {
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// DisplayDDMM derives the DD/MM chart label back from a canonical date.
func DisplayDDMM(iso string) string {
	if !isoRE.MatchString(iso) {
		return ""
	}
	return iso[8:10] + "/" + iso[5:7]
}

// MonthKey buckets a canonical date into its MM/YYYY series label.
func MonthKey(iso string) string {
	if !isoRE.MatchString(iso) {
		return ""
	}
	return iso[5:7] + "/" + iso[0:4]
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// WeekdayNames lists the Spanish day labels in chart order, Monday first.
var WeekdayNames = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Weekday returns the Spanish weekday label of a canonical date, or "" when
// the date is not a real calendar day.
func Weekday(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return weekdayNames[t.Weekday()]
}
