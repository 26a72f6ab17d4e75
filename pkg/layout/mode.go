package layout

import (
	"fmt"
	"strings"
)

// Mode identifies one of the fixed card arrangements.
type Mode int

// Supported modes, in the order their controls are presented.
const (
	Table Mode = iota
	Sphere
	Helix
	Grid
	Pyramid
)

var modeNames = [...]string{
	Table:   "table",
	Sphere:  "sphere",
	Helix:   "helix",
	Grid:    "grid",
	Pyramid: "pyramid",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m >= 0 && int(m) < len(modeNames) }

// MarshalText implements encoding.TextMarshaler so modes serialize by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Modes returns every mode in presentation order.
func Modes() []Mode {
	return []Mode{Table, Sphere, Helix, Grid, Pyramid}
}

// ParseMode converts a case-insensitive mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout mode: %q (must be one of: %s)", s, strings.Join(modeNames[:], ", "))
}
