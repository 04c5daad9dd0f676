package normalize

import (
	"regexp"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// PGNData is the product of the two-phase PGN parse: the header tag scan
// followed by movetext tokenization and replay. A zero PGNData (empty tags,
// no moves) is what an absent PGN yields.
type PGNData struct {
	Tags  map[string]string
	Moves []string // canonical SAN, always a legal prefix from the start position
}

// Tag returns the named header tag or the empty string.
func (p PGNData) Tag(name string) string {
	if p.Tags == nil {
		return ""
	}
	return p.Tags[name]
}

var (
	tagLineRe    = regexp.MustCompile(`^\[(\w+)\s+"([^"]*)"\]`)
	braceRe      = regexp.MustCompile(`\{[^}]*\}`)
	variationRe  = regexp.MustCompile(`\([^()]*\)`)
	nagRe        = regexp.MustCompile(`\$\d+`)
	moveNumberRe = regexp.MustCompile(`^\d+\.*$`)
	numberedRe   = regexp.MustCompile(`^\d+\.+`)
)

var resultTokens = map[string]struct{}{
	"1-0":     {},
	"0-1":     {},
	"1/2-1/2": {},
	"*":       {},
}

// ParsePGN scans header tags and replays the movetext through the rules
// engine. Tokens that fail legality validation terminate move extraction,
// keeping the legal prefix collected so far; the parse itself never fails.
func ParsePGN(text string) PGNData {
	data := PGNData{Tags: map[string]string{}}
	if strings.TrimSpace(text) == "" {
		return data
	}

	var movetext strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := tagLineRe.FindStringSubmatch(trimmed); m != nil {
			data.Tags[m[1]] = m[2]
			continue
		}
		movetext.WriteString(line)
		movetext.WriteString(" ")
	}

	data.Moves = replayMovetext(movetext.String())
	return data
}

// replayMovetext strips comments, variations, annotations, move numbers and
// result tokens, then validates each remaining token against the position
// reached by all prior moves.
func replayMovetext(movetext string) []string {
	movetext = braceRe.ReplaceAllString(movetext, " ")
	for strings.Contains(movetext, "(") {
		next := variationRe.ReplaceAllString(movetext, " ")
		if next == movetext {
			break
		}
		movetext = next
	}
	movetext = nagRe.ReplaceAllString(movetext, " ")

	game := nchess.NewGame()
	notationSAN := nchess.AlgebraicNotation{}
	notationUCI := nchess.UCINotation{}

	moves := make([]string, 0, 32)
	for _, token := range strings.Fields(movetext) {
		if _, ok := resultTokens[token]; ok {
			continue
		}
		if moveNumberRe.MatchString(token) || token == "..." {
			continue
		}
		token = numberedRe.ReplaceAllString(token, "")
		token = strings.TrimRight(token, "!?")
		if token == "" {
			continue
		}

		pos := game.Position()
		move, err := notationSAN.Decode(pos, token)
		if err != nil {
			move, err = notationUCI.Decode(pos, strings.ToLower(token))
			if err != nil {
				break
			}
		}
		if err := game.Move(move, nil); err != nil {
			break
		}
		moves = append(moves, notationSAN.Encode(pos, move))
	}
	return moves
}
