package icons

import (
	"sort"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		icon   string
		wantOK bool
	}{
		{"known icon", "star", true},
		{"another known icon", "bolt", true},
		{"unknown icon", "dragon", false},
		{"empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic, ok := Lookup(tt.icon)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.icon, ok, tt.wantOK)
			}
			if ok && (ic.Path == "" || ic.ViewBox == "") {
				t.Errorf("Lookup(%q) returned incomplete icon: %+v", tt.icon, ic)
			}
			if !ok && ic != (Icon{}) {
				t.Errorf("Lookup(%q) returned non-zero icon for unknown name", tt.icon)
			}
		})
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("Names() returned no icons")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	for _, n := range names {
		if _, ok := Lookup(n); !ok {
			t.Errorf("Names() lists %q but Lookup fails", n)
		}
	}
}
