// Package board exposes live-board operations: starting a fresh game,
// applying a single move to a position, and labeling the opening.
package board

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// State describes a board position for API consumers.
type State struct {
	FEN        string   `json:"fen"`
	Turn       string   `json:"turn"`
	LegalMoves []string `json:"legal_moves"`
	GameOver   bool     `json:"game_over"`
}

// MoveResult is the outcome of applying one move to a position.
type MoveResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	FEN      string `json:"fen"`
	SAN      string `json:"san,omitempty"`
	Turn     string `json:"turn"`
	GameOver bool   `json:"game_over"`
}

const legalMovePreview = 10

// NewGame returns the starting position.
func NewGame() State {
	return stateFrom(nchess.NewGame())
}

// MakeMove applies moveText (SAN, falling back to UCI) to the position given
// by fen. An illegal or unparseable move yields Success=false with the
// position unchanged; it is not an error.
func MakeMove(fen, moveText string) (MoveResult, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return MoveResult{}, err
	}
	game := nchess.NewGame(opt)

	moveText = strings.TrimSpace(moveText)
	notationSAN := nchess.AlgebraicNotation{}
	notationUCI := nchess.UCINotation{}
	posBefore := game.Position()

	move, decodeErr := notationSAN.Decode(posBefore, moveText)
	if decodeErr != nil {
		move, decodeErr = notationUCI.Decode(posBefore, strings.ToLower(moveText))
	}
	if decodeErr != nil || game.Move(move, nil) != nil {
		return MoveResult{
			Success: false,
			Message: "illegal move: " + moveText,
			FEN:     fen,
			Turn:    strings.ToLower(posBefore.Turn().String()),
		}, nil
	}

	return MoveResult{
		Success:  true,
		FEN:      game.FEN(),
		SAN:      notationSAN.Encode(posBefore, move),
		Turn:     strings.ToLower(game.Position().Turn().String()),
		GameOver: game.Outcome() != nchess.NoOutcome,
	}, nil
}

// OpeningLabel replays uciMoves from the start position and looks the line
// up in the ECO book. Returns empty strings when the line is not in the book.
func OpeningLabel(uciMoves []string) (code, title string) {
	game := nchess.NewGame()
	notationUCI := nchess.UCINotation{}
	for _, mv := range uciMoves {
		pos := game.Position()
		decoded, err := notationUCI.Decode(pos, strings.ToLower(strings.TrimSpace(mv)))
		if err != nil {
			break
		}
		if err := game.Move(decoded, nil); err != nil {
			break
		}
	}
	book := opening.NewBookECO()
	if book == nil {
		return "", ""
	}
	if eco := book.Find(game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

func stateFrom(game *nchess.Game) State {
	legal := make([]string, 0, legalMovePreview)
	for _, mv := range game.ValidMoves() {
		if len(legal) == legalMovePreview {
			break
		}
		legal = append(legal, mv.String())
	}
	return State{
		FEN:        game.FEN(),
		Turn:       strings.ToLower(game.Position().Turn().String()),
		LegalMoves: legal,
		GameOver:   game.Outcome() != nchess.NoOutcome,
	}
}
