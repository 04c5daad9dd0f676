package normalize

import (
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/stretchr/testify/assert"
)

const samplePGN = `[Event "Live Chess"]
[Site "Chess.com"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[ECO "C50"]
[Opening "Italian Game"]
[Termination "alice won by checkmate"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 1-0`

func TestParsePGN_Tags(t *testing.T) {
	p := ParsePGN(samplePGN)
	assert.Equal(t, "1-0", p.Tag("Result"))
	assert.Equal(t, "C50", p.Tag("ECO"))
	assert.Equal(t, "Italian Game", p.Tag("Opening"))
	assert.Equal(t, "alice won by checkmate", p.Tag("Termination"))
	assert.Equal(t, "", p.Tag("Missing"))
}

func TestParsePGN_Moves(t *testing.T) {
	p := ParsePGN(samplePGN)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}, p.Moves)
}

func TestParsePGN_Empty(t *testing.T) {
	p := ParsePGN("")
	assert.Empty(t, p.Moves)
	assert.Equal(t, "", p.Tag("Result"))
}

func TestParsePGN_CorruptedMovetextTruncates(t *testing.T) {
	p := ParsePGN("1. e4 e5 2. Zz9 Nf3")
	assert.Equal(t, []string{"e4", "e5"}, p.Moves)
}

func TestParsePGN_StripsCommentsAndAnnotations(t *testing.T) {
	pgn := `[Result "*"]

1. e4 {[%clk 0:02:58]} e5! $2 (1... c5 2. Nf3) 2. Nf3 1/2-1/2`
	p := ParsePGN(pgn)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, p.Moves)
}

func TestParsePGN_NumberGluedToMove(t *testing.T) {
	p := ParsePGN("1.e4 e5 2.Nf3")
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, p.Moves)
}

// Every emitted move must be legal from the position reached by all prior
// emitted moves.
func TestParsePGN_PrefixLegality(t *testing.T) {
	inputs := []string{
		samplePGN,
		"1. e4 e5 2. Zz9 Nf3",
		"1. d4 d5 2. c4 e6 3. Nc3 Nf6 junk",
		"e4 e5 Ke2 Ke7 Ke1 Ke8",
	}
	for _, in := range inputs {
		p := ParsePGN(in)
		game := nchess.NewGame()
		notation := nchess.AlgebraicNotation{}
		for _, san := range p.Moves {
			pos := game.Position()
			move, err := notation.Decode(pos, san)
			if err != nil {
				t.Fatalf("emitted move %q does not decode: %v (input %q)", san, err, in)
			}
			if err := game.Move(move, nil); err != nil {
				t.Fatalf("emitted move %q is illegal: %v (input %q)", san, err, in)
			}
		}
	}
}

func TestParsePGN_LongGameStaysLegal(t *testing.T) {
	// Scholar's mate: the game ends after Qxf7#; the trailing result token
	// must not leak into the move list.
	pgn := "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0"
	p := ParsePGN(pgn)
	assert.Equal(t, 7, len(p.Moves))
	assert.True(t, strings.HasPrefix(p.Moves[6], "Qxf7"))
}
