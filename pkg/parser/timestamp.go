package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTimestamp converts a date token ("M/D/YY" or "M/D/YYYY") and a time
// token ("H:MM:SS" with an optional AM/PM marker) from an export header into
// an absolute timestamp in the given location.
func parseTimestamp(dateToken, timeToken string, loc *time.Location) (time.Time, error) {
	year, month, day, err := parseDateToken(dateToken)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, second, err := parseTimeToken(timeToken)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

// parseDateToken parses a slash-separated date. Two-digit years below 50 are
// interpreted as 20xx, the rest as 19xx.
func parseDateToken(token string) (year, month, day int, err error) {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: expected M/D/YY or M/D/YYYY", token)
	}

	month, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in date %q: %w", token, err)
	}
	day, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid day in date %q: %w", token, err)
	}
	year, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in date %q: %w", token, err)
	}

	if len(parts[2]) <= 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: month out of range", token)
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: day out of range", token)
	}

	return year, month, day, nil
}

// parseTimeToken parses "H:MM:SS" in 24-hour form, or "H:MM:SS AM"/"PM" in
// 12-hour form. Internal whitespace (including the narrow no-break space some
// exports emit before the meridiem) is collapsed before matching.
func parseTimeToken(token string) (hour, minute, second int, err error) {
	fields := strings.Fields(token)

	var clock, meridiem string
	switch len(fields) {
	case 1:
		clock = fields[0]
	case 2:
		clock = fields[0]
		meridiem = strings.ToUpper(fields[1])
		if meridiem != "AM" && meridiem != "PM" {
			return 0, 0, 0, fmt.Errorf("invalid time %q: unexpected marker %q", token, fields[1])
		}
	default:
		return 0, 0, 0, fmt.Errorf("invalid time %q: expected H:MM:SS with optional AM/PM", token)
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid time %q: expected 3 colon-separated fields", token)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hour in time %q: %w", token, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid minute in time %q: %w", token, err)
	}
	second, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid second in time %q: %w", token, err)
	}

	if minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("invalid time %q: minute or second out of range", token)
	}

	if meridiem == "" {
		if hour < 0 || hour > 23 {
			return 0, 0, 0, fmt.Errorf("invalid time %q: hour out of range", token)
		}
		return hour, minute, second, nil
	}

	// 12-hour to 24-hour conversion: 12 AM is midnight, 12 PM stays 12.
	if hour < 1 || hour > 12 {
		return 0, 0, 0, fmt.Errorf("invalid time %q: hour out of range for 12-hour clock", token)
	}
	if meridiem == "AM" && hour == 12 {
		hour = 0
	} else if meridiem == "PM" && hour != 12 {
		hour += 12
	}

	return hour, minute, second, nil
}
