package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sheetEpoch is day zero of the 1900 date system: 1899-12-30. Serial 44000
// lands on 2020-06-18.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var errNoDate = errors.New("empty date cell")

// ResolveDate converts a raw spreadsheet cell into a calendar date. A numeric
// cell is a day-count serial added to the sheet epoch; a string cell is
// DD-MM-YYYY split on "-", with or without zero padding. Anything else is an
// error and the caller flags the row.
func ResolveDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errNoDate
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		// Truncate any time-of-day fraction; day precision is all the
		// schema carries.
		return sheetEpoch.AddDate(0, 0, int(serial)), nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q out of range", raw)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
