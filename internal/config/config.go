package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultTimeZone = "America/New_York"

	// DefaultRunSchedule runs the monthly batch at 06:00 on the 2nd, once
	// all carriers have posted their prior-month invoices.
	DefaultRunSchedule = "0 6 2 * *"

	DefaultDataDir      = "./data/invoices"
	DefaultExportDir    = "./data/reports"
	DefaultFieldMapPath = "./fieldmaps.yaml"

	DefaultGatewayPort = 8081
	DefaultFreightPort = 7143
)

// Env returns the value of key, or def when unset or blank.
func Env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvInt returns the integer value of key, or def when unset or unparsable.
func EnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvBool returns the boolean value of key. Accepts 1/true/yes in any case;
// unset or blank yields def.
func EnvBool(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}
