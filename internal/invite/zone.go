package invite

import (
	"strings"
	"time"

	appLog "huntersledger/internal/log"
)

// DefaultZone is the region used when no timezone is given or the given
// one cannot be resolved.
const DefaultZone = "Europe/London"

// abbreviations maps common zone abbreviations to a single region. The
// region's rules already carry the seasonal offset, so both halves of a
// pair (GMT/BST, PST/PDT, ...) map to the same place.
var abbreviations = map[string]string{
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"UTC":  "UTC",
	"CET":  "Europe/Berlin",
	"CEST": "Europe/Berlin",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
}

// Resolver maps free-text timezone hints to a location. A Resolver is
// immutable once built and safe for concurrent use.
type Resolver struct {
	fallback *time.Location
}

// NewResolver returns a Resolver that falls back to the named region. An
// unloadable name falls back to DefaultZone, and failing that to UTC.
func NewResolver(defaultZone string) *Resolver {
	loc, ok := loadRegion(defaultZone)
	if !ok {
		appLog.Warn("default timezone not loadable; using built-in default", "name", defaultZone, "default", DefaultZone)
		if loc, ok = loadRegion(DefaultZone); !ok {
			loc = time.UTC
		}
	}
	return &Resolver{fallback: loc}
}

// Default returns the fallback location.
func (r *Resolver) Default() *time.Location {
	return r.fallback
}

// Resolve never fails: blank input, unknown abbreviations and unknown
// region names all yield the default location.
func (r *Resolver) Resolve(token string) *time.Location {
	token = strings.TrimSpace(token)
	if token == "" {
		return r.fallback
	}
	name := token
	if region, ok := abbreviations[strings.ToUpper(token)]; ok {
		name = region
	}
	loc, ok := loadRegion(name)
	if !ok {
		appLog.Debug("unknown timezone; using default", "input", token, "default", r.fallback.String())
		return r.fallback
	}
	return loc
}

// loadRegion loads an IANA region. time.LoadLocation treats "" as UTC and
// "Local" as the host zone; neither is a region name, so both are rejected.
func loadRegion(name string) (*time.Location, bool) {
	if name == "" || name == "Local" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}
