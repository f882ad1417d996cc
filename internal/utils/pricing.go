package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateRange is returned when a rental end date is not
// strictly after its start date.
var ErrInvalidDateRange = errors.New("end date must be after start date")

// ErrInvalidDate is returned when a date string does not parse as
// yyyy-mm-dd.
var ErrInvalidDate = errors.New("date must be formatted as yyyy-mm-dd")

const dateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd formatted string into a UTC time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return t, nil
}

// RentalDays returns the number of billable days for a rental period.
// The end date is exclusive: Jan 1 to Jan 5 is 4 days. Ranges where the
// end does not fall strictly after the start are rejected.
func RentalDays(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, ErrInvalidDateRange
	}
	days := int32(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days, nil
}

// RentalTotalCents computes the rental price from the daily price
// snapshot and the billable day count.
func RentalTotalCents(pricePerDayCents int64, days int32) int64 {
	return pricePerDayCents * int64(days)
}
