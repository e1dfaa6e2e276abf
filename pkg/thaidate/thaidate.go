package thaidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which textual pattern produced a resolved date.
type Kind string

const (
	KindNone     Kind = "none"
	KindExplicit Kind = "explicit"
	KindDayMonth Kind = "day_month"
	KindTomorrow Kind = "tomorrow"
	KindWeekday  Kind = "weekday"
	KindQuarter  Kind = "quarter"
	KindMonth    Kind = "month"
)

// Reference is a calendar date extracted from free text, tagged with the
// pattern that matched. A zero Reference (KindNone) means no date was found.
type Reference struct {
	Date time.Time
	Kind Kind
}

// Found reports whether the reference carries a resolved date.
func (r Reference) Found() bool {
	return r.Kind != KindNone && !r.Date.IsZero()
}

// None is the sentinel for "no date reference found".
var None = Reference{Kind: KindNone}

const buddhistOffset = 543

var explicitDateRe = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

var thaiMonths = map[string]time.Month{
	"ม.ค.": time.January, "มกราคม": time.January,
	"ก.พ.": time.February, "กุมภาพันธ์": time.February,
	"มี.ค.": time.March, "มีนาคม": time.March,
	"เม.ย.": time.April, "เมษายน": time.April,
	"พ.ค.": time.May, "พฤษภาคม": time.May,
	"มิ.ย.": time.June, "มิถุนายน": time.June,
	"ก.ค.": time.July, "กรกฎาคม": time.July,
	"ส.ค.": time.August, "สิงหาคม": time.August,
	"ก.ย.": time.September, "กันยายน": time.September,
	"ต.ค.": time.October, "ตุลาคม": time.October,
	"พ.ย.": time.November, "พฤศจิกายน": time.November,
	"ธ.ค.": time.December, "ธันวาคม": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var weekdays = map[string]time.Weekday{
	"จันทร์":    time.Monday,
	"อังคาร":    time.Tuesday,
	"พุธ":       time.Wednesday,
	"พฤหัสบดี":  time.Thursday,
	"พฤหัส":     time.Thursday,
	"ศุกร์":     time.Friday,
	"เสาร์":     time.Saturday,
	"อาทิตย์":   time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var tomorrowWords = []string{"พรุ่งนี้", "tomorrow"}

var nextMonthWords = []string{"เดือนหน้า", "next month"}

var quarterRe = regexp.MustCompile(`(?i)(?:q|ไตรมาส\s*)([1-4])`)

var nextQuarterWords = []string{"ไตรมาสหน้า", "next quarter"}

// Resolve extracts the first date reference from text, anchored at today.
// Matching is strictly prioritised: explicit numeric date, day plus month
// name, tomorrow, named weekday, quarter, bare month name. Identical
// (text, today) inputs always yield identical results; invalid calendar
// dates resolve to None rather than an error.
func Resolve(text string, today time.Time) Reference {
	today = midnight(today)
	lower := strings.ToLower(text)

	if ref, ok := resolveExplicit(lower, today); ok {
		return ref
	}
	if ref, ok := resolveDayMonth(lower, today); ok {
		return ref
	}
	for _, w := range tomorrowWords {
		if strings.Contains(lower, w) {
			return Reference{Date: today.AddDate(0, 0, 1), Kind: KindTomorrow}
		}
	}
	if ref, ok := resolveWeekday(lower, today); ok {
		return ref
	}
	if ref, ok := resolveQuarter(lower, today); ok {
		return ref
	}
	for _, w := range nextMonthWords {
		if strings.Contains(lower, w) {
			return Reference{Date: FirstOfNextMonth(today), Kind: KindMonth}
		}
	}
	if ref, ok := resolveMonthOnly(lower, today); ok {
		return ref
	}
	return None
}

// Format renders a date in the canonical topic form d/m/yyyy using the
// Buddhist era year, round-trippable through Resolve.
func Format(d time.Time) string {
	return fmt.Sprintf("%d/%d/%d", d.Day(), int(d.Month()), d.Year()+buddhistOffset)
}

// FirstOfNextMonth returns the first day of the calendar month after today.
func FirstOfNextMonth(today time.Time) time.Time {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return first.AddDate(0, 1, 0)
}

func resolveExplicit(text string, today time.Time) (Reference, bool) {
	m := explicitDateRe.FindStringSubmatch(text)
	if m == nil {
		return None, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	year = normalizeYear(year, today)
	d, ok := validDate(year, month, day, today.Location())
	if !ok {
		return None, false
	}
	return Reference{Date: d, Kind: KindExplicit}, true
}

// normalizeYear maps Buddhist era and short-form years onto Gregorian.
// Four digits above 2400 are Buddhist; two digits are the Buddhist short
// form (e.g. 68 -> 2568 BE -> 2025) unless that lands more than a year in
// the past, in which case the value is read as a Gregorian 20yy year.
func normalizeYear(year int, today time.Time) int {
	switch {
	case year >= 2400:
		return year - buddhistOffset
	case year >= 1000:
		return year
	default:
		greg := year + 2500 - buddhistOffset
		if greg < today.Year()-1 {
			return 2000 + year
		}
		return greg
	}
}

func resolveDayMonth(text string, today time.Time) (Reference, bool) {
	name, month, pos := earliestMonth(text)
	if pos < 0 {
		return None, false
	}
	day, ok := dayBefore(text, pos)
	if !ok {
		return None, false
	}
	if year, explicit := yearAfter(text, pos+len(name), today); explicit {
		d, valid := validDate(year, int(month), day, today.Location())
		if !valid {
			return None, false
		}
		return Reference{Date: d, Kind: KindDayMonth}, true
	}
	// No year given: the reference means the next occurrence.
	d, valid := validDate(today.Year(), int(month), day, today.Location())
	if valid && d.After(today) {
		return Reference{Date: d, Kind: KindDayMonth}, true
	}
	d, valid = validDate(today.Year()+1, int(month), day, today.Location())
	if !valid {
		return None, false
	}
	return Reference{Date: d, Kind: KindDayMonth}, true
}

func resolveWeekday(text string, today time.Time) (Reference, bool) {
	best := -1
	var target time.Weekday
	for name, wd := range weekdays {
		if pos := indexToken(text, name); pos >= 0 && (best < 0 || pos < best) {
			best = pos
			target = wd
		}
	}
	if best < 0 {
		return None, false
	}
	// Explicit seven-day lookahead; "next Friday" on a Friday lands a week out.
	for i := 1; i <= 7; i++ {
		d := today.AddDate(0, 0, i)
		if d.Weekday() == target {
			return Reference{Date: d, Kind: KindWeekday}, true
		}
	}
	return None, false
}

func resolveQuarter(text string, today time.Time) (Reference, bool) {
	for _, w := range nextQuarterWords {
		if strings.Contains(text, w) {
			q := (int(today.Month())-1)/3 + 1
			return Reference{Date: quarterStart(today.Year(), q%4+1, today), Kind: KindQuarter}, true
		}
	}
	m := quarterRe.FindStringSubmatch(text)
	if m == nil {
		return None, false
	}
	q, _ := strconv.Atoi(m[1])
	return Reference{Date: quarterStart(today.Year(), q, today), Kind: KindQuarter}, true
}

// quarterStart returns the first day of the quarter's first month, rolled
// forward a year when that day is not after today.
func quarterStart(year, q int, today time.Time) time.Time {
	start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, today.Location())
	if !start.After(today) {
		start = start.AddDate(1, 0, 0)
	}
	return start
}

func resolveMonthOnly(text string, today time.Time) (Reference, bool) {
	_, month, pos := earliestMonth(text)
	if pos < 0 {
		return None, false
	}
	year := today.Year()
	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	if !first.After(today) {
		first = first.AddDate(1, 0, 0)
	}
	return Reference{Date: first, Kind: KindMonth}, true
}

// earliestMonth finds the month name occurring first in the text, preferring
// the longest name at equal positions so full names beat their abbreviations.
func earliestMonth(text string) (string, time.Month, int) {
	bestPos := -1
	var bestName string
	var bestMonth time.Month
	for name, month := range thaiMonths {
		pos := indexToken(text, name)
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(name) > len(bestName)) {
			bestPos, bestName, bestMonth = pos, name, month
		}
	}
	return bestName, bestMonth, bestPos
}

var dayRe = regexp.MustCompile(`(\d{1,2})\s*$`)

func dayBefore(text string, pos int) (int, bool) {
	m := dayRe.FindStringSubmatch(text[:pos])
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

var yearRe = regexp.MustCompile(`^\s*(\d{2,4})`)

func yearAfter(text string, pos int, today time.Time) (int, bool) {
	if pos >= len(text) {
		return 0, false
	}
	m := yearRe.FindStringSubmatch(text[pos:])
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return normalizeYear(year, today), true
}

// validDate rejects day/month combinations that time.Date would silently
// normalise, e.g. 31 February.
func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

// indexToken locates name within text. ASCII names must sit on word
// boundaries so "may" never matches inside "maybe"; Thai script has no word
// separators, so a plain substring search is correct there.
func indexToken(text, name string) int {
	if name[0] >= 0x80 {
		return strings.Index(text, name)
	}
	for start := 0; start < len(text); {
		pos := strings.Index(text[start:], name)
		if pos < 0 {
			return -1
		}
		abs := start + pos
		end := abs + len(name)
		beforeOK := abs == 0 || !isASCIILetter(text[abs-1])
		afterOK := end >= len(text) || !isASCIILetter(text[end])
		if beforeOK && afterOK {
			return abs
		}
		start = abs + 1
	}
	return -1
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
