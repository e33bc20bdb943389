package metrics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gear6io/floe/pkg/errors"
)

// ModeKind enumerates what a column's statistics include
type ModeKind int

const (
	// ModeNone tracks nothing; the column is absent from all statistics maps
	ModeNone ModeKind = iota
	// ModeCounts tracks null and value counts, no bounds
	ModeCounts
	// ModeTruncate tracks counts plus bounds truncated to a byte budget
	ModeTruncate
	// ModeFull tracks counts plus exact bounds
	ModeFull
)

// MetricsMode is the per-column statistics decision a policy hands out.
// Length is only meaningful for ModeTruncate.
type MetricsMode struct {
	Kind   ModeKind
	Length int
}

var (
	NoneMode   = MetricsMode{Kind: ModeNone}
	CountsMode = MetricsMode{Kind: ModeCounts}
	FullMode   = MetricsMode{Kind: ModeFull}
)

func TruncateMode(length int) MetricsMode {
	return MetricsMode{Kind: ModeTruncate, Length: length}
}

// DefaultMode is what applies when a table carries no default property
func DefaultMode() MetricsMode {
	return TruncateMode(16)
}

var truncatePattern = regexp.MustCompile(`^truncate\((.+)\)$`)

// ParseMode parses a mode string from table properties. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseMode(s string) (MetricsMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case "none":
		return NoneMode, nil
	case "counts":
		return CountsMode, nil
	case "full":
		return FullMode, nil
	}

	if m := truncatePattern.FindStringSubmatch(normalized); m != nil {
		length, err := strconv.Atoi(m[1])
		if err != nil {
			return MetricsMode{}, errors.Newf(ErrInvalidMode, "truncate length is not an integer: %s", s)
		}
		if length <= 0 {
			return MetricsMode{}, errors.Newf(ErrInvalidMode, "truncate length must be positive: %s", s)
		}
		return TruncateMode(length), nil
	}

	return MetricsMode{}, errors.Newf(ErrInvalidMode, "unsupported metrics mode: %s", s)
}

func (m MetricsMode) String() string {
	switch m.Kind {
	case ModeNone:
		return "none"
	case ModeCounts:
		return "counts"
	case ModeTruncate:
		return fmt.Sprintf("truncate(%d)", m.Length)
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("unknown(%d)", int(m.Kind))
	}
}
