// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort            = "8080"
	DefaultDBPath          = "commuline.db"
	DefaultBatchSize       = 5
	DefaultStationDelay    = 5 * time.Second
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 5.0
	DefaultRateLimitBurst  = 10
)

// Upstream endpoint paths
const (
	PathStations  = "/krl-station"
	PathSchedules = "/schedule"
	PathFare      = "/fare"
	PathRouteMaps = "/routemap"
)

// Full-day schedule window used by the sync engine regardless of what
// range end users request.
const (
	FullDayFrom = "00:00"
	FullDayTo   = "23:59"
)

// TimePattern matches the HH:mm strings accepted on query parameters.
const TimePattern = `^([0-1][0-9]|2[0-3]):[0-5][0-9]$`
