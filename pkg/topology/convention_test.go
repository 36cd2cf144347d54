package topology

import "testing"

func TestParseConvention(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Convention
	}{
		{
			name: "ceos",
			in:   "ceos",
			want: ConventionCEOS,
		},
		{
			name: "hardware",
			in:   "hardware",
			want: ConventionHardware,
		},
		{
			name: "mixed case",
			in:   "CEOS",
			want: ConventionCEOS,
		},
		{
			name: "surrounding space",
			in:   "  hardware ",
			want: ConventionHardware,
		},
		{
			name: "unknown",
			in:   "vmx",
			want: ConventionUnknown,
		},
		{
			name: "empty",
			in:   "",
			want: ConventionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseConvention(tt.in); got != tt.want {
				t.Errorf("ParseConvention(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConventionIsUnknown(t *testing.T) {
	if ConventionCEOS.IsUnknown() {
		t.Error("ceos should be known")
	}
	if ConventionHardware.IsUnknown() {
		t.Error("hardware should be known")
	}
	if !ConventionUnknown.IsUnknown() {
		t.Error("zero value should be unknown")
	}
	if !Convention("vmx").IsUnknown() {
		t.Error("unsupported value should be unknown")
	}
}

func TestMapInterface(t *testing.T) {
	tests := []struct {
		name string
		conv Convention
		in   string
		want string
	}{
		{
			name: "ceos fixed port",
			conv: ConventionCEOS,
			in:   "Ethernet2",
			want: "eth2",
		},
		{
			name: "ceos breakout port",
			conv: ConventionCEOS,
			in:   "Ethernet3/1",
			want: "eth3_1",
		},
		{
			name: "ceos modular port",
			conv: ConventionCEOS,
			in:   "Ethernet4/2/1",
			want: "eth4_2_1",
		},
		{
			name: "ceos management untouched",
			conv: ConventionCEOS,
			in:   "Management1",
			want: "Management1",
		},
		{
			name: "ceos port-channel untouched",
			conv: ConventionCEOS,
			in:   "Port-Channel7",
			want: "Port-Channel7",
		},
		{
			name: "hardware passthrough",
			conv: ConventionHardware,
			in:   "Ethernet2",
			want: "Ethernet2",
		},
		{
			name: "hardware keeps separators",
			conv: ConventionHardware,
			in:   "Ethernet3/1",
			want: "Ethernet3/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conv.MapInterface(tt.in); got != tt.want {
				t.Errorf("MapInterface(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasVirtualEquivalent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{
			name: "mapped ethernet",
			in:   "eth2",
			want: true,
		},
		{
			name: "mapped breakout",
			in:   "eth3_1",
			want: true,
		},
		{
			name: "management",
			in:   "Management1",
			want: false,
		},
		{
			name: "vlan",
			in:   "Vlan100",
			want: false,
		},
		{
			name: "unmapped physical name",
			in:   "Ethernet2",
			want: false,
		},
		{
			name: "empty",
			in:   "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasVirtualEquivalent(tt.in); got != tt.want {
				t.Errorf("HasVirtualEquivalent(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSupportedConventions(t *testing.T) {
	got := SupportedConventions()
	if len(got) != 2 {
		t.Fatalf("expected 2 conventions, got %d", len(got))
	}
	for _, s := range got {
		if ParseConvention(s).IsUnknown() {
			t.Errorf("supported convention %q does not parse", s)
		}
	}
}
