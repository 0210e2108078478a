package utils

import (
	"time"
)

const (
	clockLayout       = "15:04"
	clockLayoutSecond = "15:04:05"
	DateLayout        = "2006-01-02"
)

// ParseClock 解析墙上时间（HH:MM 或 HH:MM:SS），返回当天零点起的偏移
func ParseClock(clock string) (time.Duration, error) {
	layout := clockLayout
	if len(clock) == len(clockLayoutSecond) {
		layout = clockLayoutSecond
	}

	parsed, err := time.Parse(layout, clock)
	if err != nil {
		return 0, err
	}

	return time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second, nil
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, date, loc)
}
