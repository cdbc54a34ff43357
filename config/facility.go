package config

import (
	"fmt"
	"sort"
	"strings"
)

// FacilityProfile describes the storage layout and scheduler defaults of a
// named computing site.
type FacilityProfile struct {
	Name         string
	DataRoot     string
	DefaultQueue string
}

// facilities is the closed set of sites the launcher knows how to submit to.
var facilities = map[string]FacilityProfile{
	"SLAC": {
		Name:         "SLAC",
		DataRoot:     "/cds/data/psdm",
		DefaultQueue: "psanaq",
	},
	"SRCF_FFB": {
		Name:         "SRCF_FFB",
		DataRoot:     "/cds/data/drpsrcf/ffb",
		DefaultQueue: "anaq",
	},
	"NERSC": {
		Name:         "NERSC",
		DataRoot:     "/global/cfs/cdirs/lcls",
		DefaultQueue: "regular",
	},
}

// UnknownFacilityError is returned when a facility name is not in the closed
// set of known sites. It fails the dispatch before any path resolution.
type UnknownFacilityError struct {
	Facility string
}

func (e *UnknownFacilityError) Error() string {
	return fmt.Sprintf("unknown facility %q (known facilities: %s)",
		e.Facility, strings.Join(FacilityNames(), ", "))
}

// Facility looks up the profile for the given facility name.
func Facility(name string) (FacilityProfile, error) {
	p, ok := facilities[name]
	if !ok {
		return FacilityProfile{}, &UnknownFacilityError{Facility: name}
	}
	return p, nil
}

// FacilityNames returns the names of all known facilities, sorted.
func FacilityNames() []string {
	names := make([]string, 0, len(facilities))
	for name := range facilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
