package util

import "time"

const Day = 24 * time.Hour

// DaysBetween 返回 from 到 to 之间完整的天数，to 早于 from 时为 0
func DaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / Day)
}
