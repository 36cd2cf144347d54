package topology

import "strings"

// Convention selects the interface-naming rule applied when normalizing
// interface names for the emulated topology.
type Convention string

const (
	// ConventionUnknown is the zero value, rejected at synthesis time.
	ConventionUnknown Convention = ""

	// ConventionCEOS rewrites physical EOS port names to their container
	// equivalents (Ethernet3 -> eth3, Ethernet3/1 -> eth3_1). Names without
	// the Ethernet prefix pass through unchanged.
	ConventionCEOS Convention = "ceos"

	// ConventionHardware passes every name through unchanged, for labs built
	// from images that keep native port naming.
	ConventionHardware Convention = "hardware"
)

const (
	physicalPrefix = "Ethernet"
	virtualPrefix  = "eth"

	// virtualMarker is the substring a normalized interface name must carry
	// to have a data-plane equivalent in the lab. Management and logical
	// interfaces (Management1, Vlan100, Port-Channel7) never map to a wire.
	virtualMarker = "eth"
)

// ParseConvention parses the given string into a Convention.
// Matching is case-insensitive; unrecognized input yields ConventionUnknown.
func ParseConvention(s string) Convention {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ConventionCEOS):
		return ConventionCEOS
	case string(ConventionHardware):
		return ConventionHardware
	default:
		return ConventionUnknown
	}
}

// IsUnknown returns true if the convention is not one of the supported ones.
func (c Convention) IsUnknown() bool {
	return c != ConventionCEOS && c != ConventionHardware
}

// String returns the string representation of the convention.
func (c Convention) String() string {
	return string(c)
}

// SupportedConventions returns the list of supported convention names.
func SupportedConventions() []string {
	return []string{
		string(ConventionCEOS),
		string(ConventionHardware),
	}
}

// MapInterface normalizes a native interface name under the convention.
// Under ConventionCEOS, Ethernet ports become ethN and any slot separators
// become underscores; all other names are returned as-is.
func (c Convention) MapInterface(name string) string {
	if c == ConventionCEOS && strings.HasPrefix(name, physicalPrefix) {
		name = virtualPrefix + strings.TrimPrefix(name, physicalPrefix)
		return strings.ReplaceAll(name, "/", "_")
	}
	return name
}

// HasVirtualEquivalent reports whether a normalized interface name maps to a
// wire in the emulated lab. A link is only emitted when both of its
// normalized endpoint names carry the marker.
func HasVirtualEquivalent(normalized string) bool {
	return strings.Contains(normalized, virtualMarker)
}
