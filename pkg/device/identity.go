package device

import (
	"fmt"
	"strings"
)

// UnknownValue is recorded for identity fields the device output omits.
const UnknownValue = "UNKNOWN"

const (
	serialNumberLabel = "serial number"
	systemMACLabel    = "system mac address"
)

// Identity is the hardware identity harvested from a device.
type Identity struct {
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	SystemMAC    string `json:"system_mac" yaml:"system_mac"`
}

// ParseIdentity extracts the serial number and system MAC address from
// "show version" output. Labels match case-insensitively and the value is
// everything after the first colon; fields whose label never appears are
// reported as UNKNOWN.
func ParseIdentity(text string) Identity {
	id := Identity{
		SerialNumber: UnknownValue,
		SystemMAC:    UnknownValue,
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, serialNumberLabel):
			if v, ok := labelValue(line); ok {
				id.SerialNumber = v
			}
		case strings.HasPrefix(lower, systemMACLabel):
			if v, ok := labelValue(line); ok {
				id.SystemMAC = v
			}
		}
	}
	return id
}

func labelValue(line string) (string, bool) {
	_, v, ok := strings.Cut(line, ":")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Text renders the identity in the key=value layout written next to each
// node's startup config.
func (i Identity) Text() string {
	return fmt.Sprintf("SERIALNUMBER=%s\nSYSTEMMACADDR=%s\n", i.SerialNumber, i.SystemMAC)
}
