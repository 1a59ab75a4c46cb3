package cronx

import "time"

// Cron field value ranges.
const (
	MinMinute = 0
	MaxMinute = 59
	MinHour   = 0
	MaxHour   = 23
	MinDay    = 1
	MaxDay    = 31
	MinMonth  = 1
	MaxMonth  = 12
	// MinWeekday and MaxWeekday use the POSIX convention: 0 = Sunday.
	MinWeekday = 0
	MaxWeekday = 6
)

// horizon bounds how far getNext/getPrev will search before giving up.
// Exceeding it means the expression can never fire, which for a validated
// expression (at least one bit set per field) indicates a calculator bug,
// not a legitimate empty schedule.
const horizon = 10 * 365 * 24 * time.Hour

// dayCacheSize is the bound on the per-(year,month) valid-day LRU. The spec
// permits any bound >= 32; 10000 matches the source's own choice.
const dayCacheSize = 10000
