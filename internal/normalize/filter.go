package normalize

import (
	"fmt"
	"strings"

	"github.com/kapu/chess-learn-go/internal/domain"
)

// Result buckets accepted by Filter.Result.
const (
	BucketWins   = "wins"
	BucketLosses = "losses"
	BucketDraws  = "draws"
)

// Filter selects canonical games through independent conjunctive
// predicates. Empty fields match everything.
type Filter struct {
	TimeClass string // bullet | blitz | rapid | classical
	Result    string // wins | losses | draws
	Color     string // white | black
	Search    string // free text over player names, opening label, ECO
}

// IsZero reports whether the filter matches all games.
func (f Filter) IsZero() bool {
	return f.TimeClass == "" && f.Result == "" && f.Color == "" && strings.TrimSpace(f.Search) == ""
}

// Apply returns the games matching every predicate of f, preserving order.
func Apply(games []domain.Game, f Filter) []domain.Game {
	if f.IsZero() {
		return games
	}
	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if Matches(g, f) {
			out = append(out, g)
		}
	}
	return out
}

// Matches evaluates all predicates with standard boolean AND.
func Matches(g domain.Game, f Filter) bool {
	if f.TimeClass != "" && string(g.TimeClass) != f.TimeClass {
		return false
	}
	if f.Color != "" && string(g.UserColor) != f.Color {
		return false
	}
	if f.Result != "" && !inBucket(g, f.Result) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		haystack := strings.ToLower(strings.Join([]string{g.White, g.Black, g.OpeningName, g.ECO}, " "))
		if !strings.Contains(haystack, s) {
			return false
		}
	}
	return true
}

// inBucket classifies a game from the viewer's perspective: a win is the
// viewer's color taking the full point.
func inBucket(g domain.Game, bucket string) bool {
	switch bucket {
	case BucketWins:
		return (g.UserColor == domain.White && g.Result == "1-0") ||
			(g.UserColor == domain.Black && g.Result == "0-1")
	case BucketLosses:
		return (g.UserColor == domain.White && g.Result == "0-1") ||
			(g.UserColor == domain.Black && g.Result == "1-0")
	case BucketDraws:
		return g.Result == "1/2-1/2"
	default:
		return true
	}
}

// Stats are simple counts over a (possibly filtered) game set.
type Stats struct {
	Total   int    `json:"total"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Draws   int    `json:"draws"`
	Unknown int    `json:"unknown"`
	WinRate string `json:"win_rate"` // percentage, one decimal; "0" for an empty set
}

// ComputeStats aggregates win/loss/draw counts and the win rate as a
// percentage string rounded to one decimal. Zero games yields "0" by
// convention rather than an error.
func ComputeStats(games []domain.Game) Stats {
	s := Stats{Total: len(games)}
	for _, g := range games {
		switch {
		case inBucket(g, BucketWins):
			s.Wins++
		case inBucket(g, BucketLosses):
			s.Losses++
		case inBucket(g, BucketDraws):
			s.Draws++
		default:
			s.Unknown++
		}
	}
	if s.Total == 0 {
		s.WinRate = "0"
		return s
	}
	s.WinRate = fmt.Sprintf("%.1f", float64(s.Wins)/float64(s.Total)*100)
	return s
}
