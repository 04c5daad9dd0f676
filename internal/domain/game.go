package domain

// Winner identifies which side won a normalized game record.
type Winner string

const (
	WinnerWhite   Winner = "white"
	WinnerBlack   Winner = "black"
	WinnerDraw    Winner = "draw"
	WinnerUnknown Winner = "unknown"
)

// Result returns the PGN-style result string for a winner. The two are
// always consistent: one determines the other.
func (w Winner) Result() string {
	switch w {
	case WinnerWhite:
		return "1-0"
	case WinnerBlack:
		return "0-1"
	case WinnerDraw:
		return "1/2-1/2"
	default:
		return "unknown"
	}
}

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// TimeClass is the coarse bucket derived from the base time control.
type TimeClass string

const (
	TimeClassBullet    TimeClass = "bullet"
	TimeClassBlitz     TimeClass = "blitz"
	TimeClassRapid     TimeClass = "rapid"
	TimeClassClassical TimeClass = "classical"
)

// Game is the canonical record produced by the normalizer. It is immutable
// once constructed; fetched batches replace the previous batch wholesale.
type Game struct {
	ID          string    `json:"id"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	Winner      Winner    `json:"winner"`
	Result      string    `json:"result"`
	RawResult   string    `json:"raw_result"`
	WhiteResult string    `json:"white_result"`
	BlackResult string    `json:"black_result"`
	WhiteRating int       `json:"white_rating,omitempty"`
	BlackRating int       `json:"black_rating,omitempty"`
	TimeControl string    `json:"time_control"`
	EndTime     int64     `json:"end_time"`
	TimeClass   TimeClass `json:"time_class"`
	ECO         string    `json:"eco"`
	Termination string    `json:"termination"`
	OpeningName string    `json:"opening_name"`
	Moves       []string  `json:"moves"`
	UserColor   Color     `json:"user_color"`
	URL         string    `json:"url"`
}
