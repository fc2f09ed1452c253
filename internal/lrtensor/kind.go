package lrtensor

import (
	"fmt"
	"strings"
)

// Kind identifies the representation backing a tensor.
type Kind int

// Representation kinds.
const (
	KindNone      Kind = iota // no backend attached
	KindFull                  // dense, exact
	KindLowRank2D             // separated, axes in two groups
	KindLowRank3D             // separated, axes in three groups
)

// String returns the representation name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindFull:
		return "FullRank"
	case KindLowRank2D:
		return "LowRank-2D"
	case KindLowRank3D:
		return "LowRank-3D"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsLowRank reports whether k is one of the separated kinds.
func (k Kind) IsLowRank() bool {
	return k == KindLowRank2D || k == KindLowRank3D
}

// Groups returns the number of axis groups of a low-rank kind, 0 otherwise.
func (k Kind) Groups() int {
	switch k {
	case KindLowRank2D:
		return 2
	case KindLowRank3D:
		return 3
	default:
		return 0
	}
}

// ParseKind parses a kind name. Matching is case-insensitive and accepts
// the short forms "full", "2d" and "3d".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return KindNone, nil
	case "fullrank", "full":
		return KindFull, nil
	case "lowrank-2d", "lowrank2d", "2d":
		return KindLowRank2D, nil
	case "lowrank-3d", "lowrank3d", "3d":
		return KindLowRank3D, nil
	default:
		return KindNone, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, s)
	}
}
