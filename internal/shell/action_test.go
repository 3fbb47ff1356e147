package shell

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"minimize", ActionMinimize, false},
		{"MAXIMIZE", ActionMaximize, false},
		{" restore ", ActionRestore, false},
		{"toggle-maximize", ActionToggleMaximize, false},
		{"toggle_maximize", ActionToggleMaximize, false},
		{"close", ActionClose, false},
		{"fullscreen", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseAction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestActionNamesRoundTrip(t *testing.T) {
	names := ActionNames()
	if len(names) != 5 {
		t.Fatalf("ActionNames() = %v", names)
	}
	for _, n := range names {
		a, err := ParseAction(n)
		if err != nil || a.String() != n {
			t.Fatalf("name %q resolved to %v (%v)", n, a, err)
		}
	}
}
