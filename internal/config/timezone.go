package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without a zoneinfo database
)

// offsetPattern matches "UTC+9", "UTC-03:30", "+9" and "+09:00".
var offsetPattern = regexp.MustCompile(`^(?i:UTC|GMT)?([+-])(\d{1,2})(?::(\d{2}))?$`)

// ParseLocation resolves an IANA zone name such as "Asia/Tokyo" or a fixed
// UTC offset. Fixed offsets ignore DST.
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "UTC") || strings.EqualFold(tz, "GMT") {
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	m := offsetPattern.FindStringSubmatch(tz)
	if m == nil {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || minutes >= 60 {
		return nil, fmt.Errorf("timezone offset out of range %q", tz)
	}

	offset := hours*3600 + minutes*60
	if m[1] == "-" {
		offset = -offset
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes), offset), nil
}
