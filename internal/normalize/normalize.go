// Package normalize turns heterogeneous third-party game records into
// canonical Game records. It is total over its input domain: malformed
// fields fall back to sentinels and malformed movetext truncates rather
// than failing, so the normalizer never returns an error.
package normalize

import (
	"fmt"
	"strings"

	"github.com/kapu/chess-learn-go/internal/domain"
)

// winnerRule inspects one source of result information and reports whether
// it applies. Rules are evaluated in trust order with early exit: the
// embedded PGN is the actual game record, platform per-side metadata is
// secondary, and generic status strings are the last resort. Contradictions
// between sources are not reconciled.
type winnerRule func(raw *RawGame, pgn PGNData) (domain.Winner, bool)

var winnerRules = []winnerRule{
	winnerFromPGNTag,
	winnerFromSideResults,
	winnerFromStatus,
}

// Normalize builds the canonical record for one raw payload. index feeds the
// synthetic id fallback and viewer is the viewing user's platform handle
// used to resolve user_color.
func Normalize(raw RawGame, index int, viewer string) domain.Game {
	pgn := ParsePGN(raw.PGN)

	white := raw.White.Resolve()
	black := raw.Black.Resolve()
	winner := resolveWinner(&raw, pgn)

	g := domain.Game{
		ID:          gameID(raw, index),
		White:       white,
		Black:       black,
		Winner:      winner,
		Result:      winner.Result(),
		RawResult:   strings.ToLower(firstNonEmpty(raw.Result, raw.Status)),
		WhiteResult: strings.ToLower(sideResult(raw.WhiteResult, raw.White)),
		BlackResult: strings.ToLower(sideResult(raw.BlackResult, raw.Black)),
		WhiteRating: raw.White.Rating,
		BlackRating: raw.Black.Rating,
		TimeControl: raw.TimeControl,
		EndTime:     raw.EndTime,
		TimeClass:   ClassifyTimeControl(raw.TimeControl),
		ECO:         pgn.Tag("ECO"),
		Termination: pgn.Tag("Termination"),
		OpeningName: pgn.Tag("Opening"),
		Moves:       pgn.Moves,
		UserColor:   userColor(white, black, viewer),
		URL:         raw.URL,
	}
	return g
}

// Batch normalizes a fetched batch in order, feeding each payload its
// position for the synthetic id fallback.
func Batch(raws []RawGame, viewer string) []domain.Game {
	games := make([]domain.Game, len(raws))
	for i, raw := range raws {
		games[i] = Normalize(raw, i, viewer)
	}
	return games
}

func resolveWinner(raw *RawGame, pgn PGNData) domain.Winner {
	for _, rule := range winnerRules {
		if w, ok := rule(raw, pgn); ok {
			return w
		}
	}
	return domain.WinnerUnknown
}

func winnerFromPGNTag(_ *RawGame, pgn PGNData) (domain.Winner, bool) {
	switch pgn.Tag("Result") {
	case "1-0":
		return domain.WinnerWhite, true
	case "0-1":
		return domain.WinnerBlack, true
	case "1/2-1/2":
		return domain.WinnerDraw, true
	}
	return domain.WinnerUnknown, false
}

func winnerFromSideResults(raw *RawGame, _ PGNData) (domain.Winner, bool) {
	white := strings.ToLower(sideResult(raw.WhiteResult, raw.White))
	black := strings.ToLower(sideResult(raw.BlackResult, raw.Black))
	if strings.Contains(white, "win") {
		return domain.WinnerWhite, true
	}
	if strings.Contains(black, "win") {
		return domain.WinnerBlack, true
	}
	return domain.WinnerUnknown, false
}

var drawStatuses = []string{"draw", "stalemate", "agreement", "1/2-1/2"}

func winnerFromStatus(raw *RawGame, _ PGNData) (domain.Winner, bool) {
	status := strings.ToLower(firstNonEmpty(raw.Result, raw.Status))
	if status == "" {
		return domain.WinnerUnknown, false
	}
	if strings.Contains(status, "1-0") {
		return domain.WinnerWhite, true
	}
	if strings.Contains(status, "0-1") {
		return domain.WinnerBlack, true
	}
	for _, token := range drawStatuses {
		if strings.Contains(status, token) {
			return domain.WinnerDraw, true
		}
	}
	return domain.WinnerUnknown, false
}

// ClassifyTimeControl buckets a raw time-control string by its base
// duration in seconds. Non-numeric input parses to 0; the function is
// total with no failure mode.
func ClassifyTimeControl(tc string) domain.TimeClass {
	secs := leadingInt(tc)
	switch {
	case secs < 180:
		return domain.TimeClassBullet
	case secs < 600:
		return domain.TimeClassBlitz
	case secs < 1800:
		return domain.TimeClassRapid
	default:
		return domain.TimeClassClassical
	}
}

// leadingInt parses the leading run of digits, so "300+2" reads as 300 and
// anything non-numeric reads as 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

func gameID(raw RawGame, index int) string {
	if raw.ID != "" {
		return raw.ID
	}
	if raw.UUID != "" {
		return raw.UUID
	}
	// Positional fallback: unique within the batch, not globally.
	return fmt.Sprintf("game_%d", index)
}

func userColor(white, black, viewer string) domain.Color {
	viewer = strings.TrimSpace(viewer)
	if viewer != "" && strings.EqualFold(black, viewer) {
		return domain.Black
	}
	return domain.White
}

// sideResult prefers the explicit per-side result field and falls back to
// the result embedded in the player object (Chess.com shape).
func sideResult(explicit string, player PlayerField) string {
	if explicit != "" {
		return explicit
	}
	return player.Result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
