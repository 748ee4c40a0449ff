// Package icons is the static registry of vector icons available to
// templates. It is a pure lookup table: no state, no I/O.
//
// Icon path data is expressed in a 24x24 viewBox and rendered by scaling to
// the requesting layer's box. Unknown icon names are not an error anywhere
// in the system; lookups simply report absence and the renderer draws
// nothing.
package icons

import "sort"

// Icon is one registered vector shape.
type Icon struct {
	Name    string
	ViewBox string
	Path    string
}

const viewBox24 = "0 0 24 24"

var registry = map[string]Icon{
	"star": {
		Name:    "star",
		ViewBox: viewBox24,
		Path:    "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01L12 2z",
	},
	"heart": {
		Name:    "heart",
		ViewBox: viewBox24,
		Path:    "M12 21.35l-1.45-1.32C5.4 15.36 2 12.28 2 8.5 2 5.42 4.42 3 7.5 3c1.74 0 3.41.81 4.5 2.09C13.09 3.81 14.76 3 16.5 3 19.58 3 22 5.42 22 8.5c0 3.78-3.4 6.86-8.55 11.54L12 21.35z",
	},
	"bolt": {
		Name:    "bolt",
		ViewBox: viewBox24,
		Path:    "M7 2v11h3v9l7-12h-4l4-8H7z",
	},
	"check": {
		Name:    "check",
		ViewBox: viewBox24,
		Path:    "M9 16.17L4.83 12l-1.42 1.41L9 19 21 7l-1.41-1.41L9 16.17z",
	},
	"flag": {
		Name:    "flag",
		ViewBox: viewBox24,
		Path:    "M14.4 6L14 4H5v17h2v-7h5.6l.4 2h7V6h-5.6z",
	},
	"chat": {
		Name:    "chat",
		ViewBox: viewBox24,
		Path:    "M20 2H4c-1.1 0-2 .9-2 2v18l4-4h14c1.1 0 2-.9 2-2V4c0-1.1-.9-2-2-2z",
	},
	"globe": {
		Name:    "globe",
		ViewBox: viewBox24,
		Path:    "M12 2C6.48 2 2 6.48 2 12s4.48 10 10 10 10-4.48 10-10S17.52 2 12 2zm-1 17.93c-3.95-.49-7-3.85-7-7.93 0-.62.08-1.21.21-1.79L9 15v1c0 1.1.9 2 2 2v1.93zm6.9-2.54c-.26-.81-1-1.39-1.9-1.39h-1v-3c0-.55-.45-1-1-1H8v-2h2c.55 0 1-.45 1-1V7h2c1.1 0 2-.9 2-2v-.41c2.93 1.19 5 4.06 5 7.41 0 2.08-.8 3.97-2.1 5.39z",
	},
	"arrow-right": {
		Name:    "arrow-right",
		ViewBox: viewBox24,
		Path:    "M12 4l-1.41 1.41L16.17 11H4v2h12.17l-5.58 5.59L12 20l8-8-8-8z",
	},
}

// Lookup returns the icon registered under name. The second return value
// reports whether the name is known; callers must render nothing for
// unknown names rather than failing.
func Lookup(name string) (Icon, bool) {
	ic, ok := registry[name]
	return ic, ok
}

// Names returns all registered icon names in sorted order, for builder
// pickers and CLI listings.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
