package lz77

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	logWindowSize = 15
	// WindowSize is how far back a match may reach.
	WindowSize = 1 << logWindowSize
	windowMask = WindowSize - 1

	MinMatch = 3   // The shortest match the compressor emits
	MaxMatch = 258 // The longest match for the compressor

	// BufferSize is the capacity of an InputBuffer: two windows plus enough
	// lookahead for a match that starts at the end of the second one.
	BufferSize = 2*WindowSize + MaxMatch

	// DefaultTooFarDistance is the distance beyond which a match of MinMatch
	// bytes costs more to encode than the literals it replaces.
	DefaultTooFarDistance = 8 * 1024

	// DefaultLazyReduceLength is the pending match length at which lazy
	// matching spends only half its usual effort looking for a better match.
	DefaultLazyReduceLength = 32

	// debugLZ77 enables internal consistency checks that panic on
	// programming errors.
	debugLZ77 = false
)

// MatchingType selects the parsing strategy.
type MatchingType int

const (
	// Greedy takes the first acceptable match at every position.
	Greedy MatchingType = iota

	// Lazy checks whether the next position has a longer match before
	// committing to a match.
	Lazy
)

func (m MatchingType) String() string {
	switch m {
	case Greedy:
		return "greedy"
	case Lazy:
		return "lazy"
	}
	return fmt.Sprintf("MatchingType(%d)", int(m))
}

// ErrInvalidOptions is returned (wrapped) by Options.Validate.
var ErrInvalidOptions = errors.New("invalid options")

// Options controls how hard the compressor looks for matches.
type Options struct {
	// MaxHashChecks is how many entries of a hash chain are examined at each
	// position. With Lazy matching, 0 switches to run-length encoding only.
	MaxHashChecks uint16

	// LazyIfLessThan is the match length at which lazy matching stops
	// looking for a better match at the next byte.
	LazyIfLessThan uint16

	MatchingType MatchingType

	// TooFarDistance overrides DefaultTooFarDistance when non-zero.
	TooFarDistance int

	// LazyReduceLength overrides DefaultLazyReduceLength when non-zero.
	LazyReduceLength int

	// Logger receives debug output about block boundaries. The default is
	// an entry on the logrus standard logger.
	Logger *logrus.Entry
}

// Validate checks o for values the compressor can't use.
func (o Options) Validate() error {
	if o.MatchingType != Greedy && o.MatchingType != Lazy {
		return fmt.Errorf("lz77: unknown matching type %d: %w", int(o.MatchingType), ErrInvalidOptions)
	}
	if o.LazyIfLessThan > MaxMatch {
		return fmt.Errorf("lz77: LazyIfLessThan %d is longer than the longest match (%d): %w", o.LazyIfLessThan, MaxMatch, ErrInvalidOptions)
	}
	if o.TooFarDistance < 0 || o.TooFarDistance > WindowSize {
		return fmt.Errorf("lz77: TooFarDistance %d out of range [0, %d]: %w", o.TooFarDistance, WindowSize, ErrInvalidOptions)
	}
	if o.LazyReduceLength < 0 || o.LazyReduceLength > MaxMatch {
		return fmt.Errorf("lz77: LazyReduceLength %d out of range [0, %d]: %w", o.LazyReduceLength, MaxMatch, ErrInvalidOptions)
	}
	return nil
}

// Presets for the compression levels. Level 0 only finds runs of the same
// byte; levels 1–3 match greedily; 4–9 use lazy matching with increasing
// search effort.
var levels = []Options{
	{MaxHashChecks: 0, LazyIfLessThan: 0, MatchingType: Lazy}, // 0
	{MaxHashChecks: 1, LazyIfLessThan: 0, MatchingType: Greedy},
	{MaxHashChecks: 4, LazyIfLessThan: 0, MatchingType: Greedy},
	{MaxHashChecks: 8, LazyIfLessThan: 0, MatchingType: Greedy},
	{MaxHashChecks: 16, LazyIfLessThan: 8, MatchingType: Lazy},
	{MaxHashChecks: 32, LazyIfLessThan: 16, MatchingType: Lazy},
	{MaxHashChecks: 128, LazyIfLessThan: 32, MatchingType: Lazy},
	{MaxHashChecks: 256, LazyIfLessThan: 64, MatchingType: Lazy},
	{MaxHashChecks: 1024, LazyIfLessThan: 128, MatchingType: Lazy},
	{MaxHashChecks: 1768, LazyIfLessThan: 128, MatchingType: Lazy},
}

// DefaultLevel is the level used by DefaultOptions.
const DefaultLevel = 6

// LevelOptions returns the preset for a compression level. Levels outside
// 0–9 are replaced with the closest level available.
func LevelOptions(level int) Options {
	if level < 0 {
		level = 0
	}
	if level > 9 {
		level = 9
	}
	return levels[level]
}

// DefaultOptions returns the options for DefaultLevel.
func DefaultOptions() Options {
	return LevelOptions(DefaultLevel)
}
