package card

import "fmt"

// Tier is a net worth band.
type Tier int

const (
	// TierC is the default band, for net worth of 100000 or less.
	TierC Tier = iota
	// TierB covers net worth above 100000.
	TierB
	// TierA covers net worth above 200000.
	TierA
)

// Tier thresholds. Both are exclusive lower bounds.
const (
	TierAThreshold = 200000
	TierBThreshold = 100000
)

// Tier colors.
const (
	ColorTierA = "#3A9F48"
	ColorTierB = "#FDCA35"
	ColorTierC = "#EF3022"
)

// TierFor maps a net worth to its tier.
func TierFor(worth float64) Tier {
	switch {
	case worth > TierAThreshold:
		return TierA
	case worth > TierBThreshold:
		return TierB
	default:
		return TierC
	}
}

// Color returns the hex border color for t.
func (t Tier) Color() string {
	switch t {
	case TierA:
		return ColorTierA
	case TierB:
		return ColorTierB
	default:
		return ColorTierC
	}
}

func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	case TierC:
		return "C"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "A":
		*t = TierA
	case "B":
		*t = TierB
	case "C":
		*t = TierC
	default:
		return fmt.Errorf("unknown tier: %q", b)
	}
	return nil
}
