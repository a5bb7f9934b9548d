// Package microshard - calendar.go converts between civil UTC date/time and
// epoch microseconds.
//
// The conversion is implemented directly (proleptic Gregorian day counting)
// rather than through the time package: the parser's validation order, leap
// rules, and fractional-digit weighting are part of the wire contract and
// must match the other editions of the codec bit for bit. Everything here is
// UTC only; timezone designators other than a trailing Z are not recognized.

package microshard

// Microsecond conversion factors.
const (
	microsPerSecond = 1_000_000
	microsPerMinute = 60 * microsPerSecond
	microsPerHour   = 3_600 * microsPerSecond
	microsPerDay    = 86_400 * microsPerSecond
)

// daysBeforeMonth[m-1] is the day-of-year offset of the first day of month m
// in a non-leap year.
var daysBeforeMonth = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// epochDays is the number of days from 0001-01-01 (proleptic Gregorian) to
// 1970-01-01.
const epochDays = 719162

// epochDaysMarch is the number of days from 0000-03-01 to 1970-01-01, the
// offset used by the March-based era decomposition in daysToCivil.
const epochDaysMarch = 719468

// isLeap reports whether year is a leap year: divisible by 4 and either not
// divisible by 100 or divisible by 400.
func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysInMonth returns the number of days in the given month of the given
// year, accounting for leap-year February.
func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// civilToDays converts a civil date to days since 1970-01-01.
//
// Counts whole days from year 0 to the start of the given year (365 per
// year plus the Gregorian leap corrections), subtracts the epoch offset,
// then adds the month offset, the leap-day correction for dates past
// February, and the day of month. Negative results denote pre-1970 dates.
func civilToDays(year, month, day int) int64 {
	y := int64(year - 1)
	days := y*365 + y/4 - y/100 + y/400 - epochDays
	days += daysBeforeMonth[month-1]
	if month > 2 && isLeap(year) {
		days++
	}
	return days + int64(day-1)
}

// daysToCivil converts days since 1970-01-01 back to a civil date.
//
// Standard Gregorian decomposition over 400-year eras, working in
// March-based years so the leap day falls at the end of the cycle. Only
// defined for non-negative day counts (the 54-bit timestamp range never
// goes below the epoch).
func daysToCivil(days int64) (year, month, day int) {
	z := days + epochDaysMarch
	era := z / 146097 // days per 400-year era
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	y := yoe + era*400
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(d)
}

// scanFixedUint parses exactly width ASCII digits starting at off.
// The second return value is false when any byte is not a digit.
func scanFixedUint(s string, off, width int) (int, bool) {
	v := 0
	for i := off; i < off+width; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

// parseISO parses "YYYY-MM-DDTHH:MM:SS[.ffffff]" into epoch microseconds.
//
// Validation happens in a fixed order so every edition of the codec fails
// the same way on the same input:
//
//  1. Minimum length (19 bytes) before any field extraction.
//  2. Exact separators: '-' at offsets 4 and 7, 'T' at 10, ':' at 13
//     and 16. Any mismatch is ErrBadFormat, before numeric parsing.
//  3. Six fixed-width numeric fields (year, month, day, hour, minute,
//     second); a non-digit anywhere in them is ErrBadFormat.
//  4. Logical ranges: month 1-12, day within the month's count for that
//     year (leap-year February included), hour 0-23, minute 0-59, second
//     0-60 (60 tolerates leap-second notation). Violations are ErrRange.
//  5. An optional fraction after a literal '.', read digit by digit with
//     decreasing powers of ten: the first fractional digit is worth
//     100000 microseconds. Digits beyond six are ignored; fewer than six
//     are right-padded with zeros by construction.
//
// A trailing "Z" after the seconds or fraction is accepted and ignored.
// Dates before 1970-01-01 are ErrRange.
func parseISO(s string) (uint64, error) {
	if len(s) < 19 {
		return 0, newFormatError(s, "too short")
	}

	if s[4] != '-' || s[7] != '-' || s[10] != 'T' || s[13] != ':' || s[16] != ':' {
		return 0, newFormatError(s, "separator")
	}

	year, ok := scanFixedUint(s, 0, 4)
	if !ok {
		return 0, newFormatError(s, "year")
	}
	month, ok := scanFixedUint(s, 5, 2)
	if !ok {
		return 0, newFormatError(s, "month")
	}
	day, ok := scanFixedUint(s, 8, 2)
	if !ok {
		return 0, newFormatError(s, "day")
	}
	hour, ok := scanFixedUint(s, 11, 2)
	if !ok {
		return 0, newFormatError(s, "hour")
	}
	minute, ok := scanFixedUint(s, 14, 2)
	if !ok {
		return 0, newFormatError(s, "minute")
	}
	second, ok := scanFixedUint(s, 17, 2)
	if !ok {
		return 0, newFormatError(s, "second")
	}

	switch {
	case month < 1 || month > 12:
		return 0, newRangeError(s, "month")
	case day < 1 || day > daysInMonth(year, month):
		return 0, newRangeError(s, "day")
	case hour > 23:
		return 0, newRangeError(s, "hour")
	case minute > 59:
		return 0, newRangeError(s, "minute")
	case second > 60:
		return 0, newRangeError(s, "second")
	}

	// Optional fractional seconds: ".ffffff", up to six digits significant.
	var frac uint64
	if len(s) > 19 && s[19] == '.' {
		mul := uint64(100_000)
		for i := 20; i < len(s) && mul >= 1; i++ {
			c := s[i]
			if c < '0' || c > '9' {
				break
			}
			frac += uint64(c-'0') * mul
			mul /= 10
		}
	}

	days := civilToDays(year, month, day)
	if days < 0 {
		return 0, newRangeError(s, "before 1970")
	}

	return uint64(days)*microsPerDay +
		uint64(hour)*microsPerHour +
		uint64(minute)*microsPerMinute +
		uint64(second)*microsPerSecond +
		frac, nil
}

// formatISO renders epoch microseconds as "YYYY-MM-DDTHH:MM:SS.ffffffZ",
// always with six zero-padded fractional digits and a trailing Z for UTC.
//
// Total for any timestamp representable in 54 bits.
func formatISO(micros uint64) string {
	days := int64(micros / microsPerDay)
	rem := micros % microsPerDay

	year, month, day := daysToCivil(days)

	hour := rem / microsPerHour
	rem %= microsPerHour
	minute := rem / microsPerMinute
	rem %= microsPerMinute
	second := rem / microsPerSecond
	frac := rem % microsPerSecond

	var buf [27]byte
	put4(buf[0:], year)
	buf[4] = '-'
	put2(buf[5:], month)
	buf[7] = '-'
	put2(buf[8:], day)
	buf[10] = 'T'
	put2(buf[11:], int(hour))
	buf[13] = ':'
	put2(buf[14:], int(minute))
	buf[16] = ':'
	put2(buf[17:], int(second))
	buf[19] = '.'
	put6(buf[20:], int(frac))
	buf[26] = 'Z'
	return string(buf[:])
}

func put2(b []byte, v int) {
	b[0] = byte('0' + v/10)
	b[1] = byte('0' + v%10)
}

func put4(b []byte, v int) {
	b[0] = byte('0' + v/1000%10)
	b[1] = byte('0' + v/100%10)
	b[2] = byte('0' + v/10%10)
	b[3] = byte('0' + v%10)
}

func put6(b []byte, v int) {
	for i := 5; i >= 0; i-- {
		b[i] = byte('0' + v%10)
		v /= 10
	}
}
