package normalize

// RawGame is the loosely-typed game payload as returned by an external
// platform (or a cached copy of one). Every field is optional; the
// normalizer substitutes sentinels for whatever is missing.
type RawGame struct {
	ID          string      `json:"id"`
	UUID        string      `json:"uuid"`
	White       PlayerField `json:"white"`
	Black       PlayerField `json:"black"`
	WhiteResult string      `json:"white_result"`
	BlackResult string      `json:"black_result"`
	Result      string      `json:"result"`
	Status      string      `json:"status"`
	TimeControl string      `json:"time_control"`
	EndTime     int64       `json:"end_time"`
	URL         string      `json:"url"`
	PGN         string      `json:"pgn"`
}
