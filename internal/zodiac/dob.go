package zodiac

import (
	"errors"
	"time"
)

const (
	DateLayout = "2006-01-02"
	MinAge     = 13
	MaxAge     = 100
)

var (
	ErrInvalidDate   = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrFutureDate    = errors.New("date of birth is in the future")
	ErrAgeOutOfRange = errors.New("age must be between 13 and 100")
)

// ParseDOB parses a YYYY-MM-DD birth date and checks that it yields an age
// between MinAge and MaxAge inclusive on the calendar day of now.
func ParseDOB(s string, now time.Time) (time.Time, error) {
	dob, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	today := truncateDay(now)
	if dob.After(today) {
		return time.Time{}, ErrFutureDate
	}

	age := Age(dob, today)
	if age < MinAge || age > MaxAge {
		return time.Time{}, ErrAgeOutOfRange
	}
	return dob, nil
}

// Age returns completed years between dob and on.
func Age(dob, on time.Time) int {
	years := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		years--
	}
	return years
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
