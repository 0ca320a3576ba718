// Package fuzzydate implements the AniList FuzzyDateInt encoding used by
// date filter arguments: YYYYMMDD packed into a single integer
// (year*10000 + month*100 + day).
package fuzzydate

// FuzzyDate is a date in AniList FuzzyDateInt form, e.g. 20200101.
type FuzzyDate int

// FromYMD converts year, month and day to FuzzyDateInt form.
// A month or day of zero (or less) defaults to 1.
func FromYMD(year, month, day int) FuzzyDate {
	if month <= 0 {
		month = 1
	}
	if day <= 0 {
		day = 1
	}
	return FuzzyDate(year*10000 + month*100 + day)
}

// StartOfYear returns January 1st of the given year.
func StartOfYear(year int) FuzzyDate {
	return FromYMD(year, 1, 1)
}

// EndOfYear returns December 31st of the given year.
func EndOfYear(year int) FuzzyDate {
	return FromYMD(year, 12, 31)
}

// Year returns the year component.
func (d FuzzyDate) Year() int {
	return int(d) / 10000
}

// Month returns the month component.
func (d FuzzyDate) Month() int {
	return int(d) / 100 % 100
}

// Day returns the day component.
func (d FuzzyDate) Day() int {
	return int(d) % 100
}
