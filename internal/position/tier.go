package position

import "fmt"

// Tier is the strongest traversal capability a position type supports.
// Tiers are ordered: a stronger tier supports every operation of a weaker one.
type Tier int

const (
	SinglePassForward Tier = iota
	MultiPassForward
	Bidirectional
	RandomAccess
)

var tierNames = [...]string{
	SinglePassForward: "single_pass",
	MultiPassForward:  "multi_pass",
	Bidirectional:     "bidirectional",
	RandomAccess:      "random_access",
}

// String returns the stable snake_case name used in records and CLI output.
func (t Tier) String() string {
	if t < SinglePassForward || t > RandomAccess {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// AtLeast reports whether t supports everything min supports.
func (t Tier) AtLeast(min Tier) bool {
	return t >= min
}

// ParseTier parses a name produced by Tier.String.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
