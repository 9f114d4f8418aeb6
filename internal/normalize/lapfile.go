package normalize

import (
	"regexp"
	"strconv"
)

var (
	lapPrefixPattern = regexp.MustCompile(`lap_(\d+)`)
	anyDigitsPattern = regexp.MustCompile(`(\d+)`)
)

// LapNumber derives a lap number from a raw file's name. A literal
// "lap_<digits>" wins; otherwise the first run of digits anywhere in the
// name is used. A name with no digits yields 0, which callers must treat as
// the unparseable-filename sentinel rather than a real lap.
func LapNumber(filename string) int {
	if m := lapPrefixPattern.FindStringSubmatch(filename); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := anyDigitsPattern.FindStringSubmatch(filename); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}
