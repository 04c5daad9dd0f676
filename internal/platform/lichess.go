package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/normalize"
)

const DefaultLichessBaseURL = "https://lichess.org"

// LichessClient reads the Lichess public API. Game exports arrive as
// NDJSON, one game document per line.
type LichessClient struct {
	client  *Client
	baseURL string
	logger  *zap.Logger
}

func NewLichess(client *Client, baseURL string, logger *zap.Logger) *LichessClient {
	if baseURL == "" {
		baseURL = DefaultLichessBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LichessClient{client: client, baseURL: trimBase(baseURL), logger: logger}
}

func (c *LichessClient) VerifyAccount(ctx context.Context, username string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/user/%s", c.baseURL, username)
	var raw json.RawMessage
	if err := c.client.getJSON(ctx, url, &raw, true); err != nil {
		return nil, err
	}
	return raw, nil
}

type lichessPlayer struct {
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Rating int `json:"rating"`
}

type lichessGame struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	LastMoveAt int64  `json:"lastMoveAt"` // milliseconds
	PGN        string `json:"pgn"`
	Clock      struct {
		Initial   int `json:"initial"`
		Increment int `json:"increment"`
	} `json:"clock"`
	Players struct {
		White lichessPlayer `json:"white"`
		Black lichessPlayer `json:"black"`
	} `json:"players"`
}

// FetchGames pulls the newest games as NDJSON. Undecodable lines are
// skipped; a transport or status failure aborts the fetch entirely.
func (c *LichessClient) FetchGames(ctx context.Context, username string, limit int) (*FetchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	url := fmt.Sprintf("%s/api/games/user/%s?max=%d&pgnInJson=true", c.baseURL, username, limit)

	body, status, err := c.client.get(ctx, url, "application/x-ndjson", false)
	if err != nil {
		return nil, fmt.Errorf("fetch lichess games: %w", err)
	}
	if status == 404 {
		return nil, ErrAccountNotFound
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: status=%d", ErrUpstream, status)
	}

	var games []normalize.RawGame
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var lg lichessGame
		if err := json.Unmarshal([]byte(line), &lg); err != nil {
			c.logger.Warn("skipping undecodable lichess game line", zap.Error(err))
			continue
		}
		games = append(games, c.toRaw(lg))
	}

	return &FetchResult{Platform: "lichess.org", Username: username, Games: games}, nil
}

func (c *LichessClient) toRaw(lg lichessGame) normalize.RawGame {
	white := normalize.PlayerField{Rating: lg.Players.White.Rating}
	if name := lg.Players.White.User.Name; name != "" {
		white.Shape = normalize.ShapeNestedUser
		white.NestedName = name
	}
	black := normalize.PlayerField{Rating: lg.Players.Black.Rating}
	if name := lg.Players.Black.User.Name; name != "" {
		black.Shape = normalize.ShapeNestedUser
		black.NestedName = name
	}

	return normalize.RawGame{
		ID:          lg.ID,
		White:       white,
		Black:       black,
		Result:      lg.Status,
		TimeControl: fmt.Sprintf("%d+%d", lg.Clock.Initial, lg.Clock.Increment),
		EndTime:     lg.LastMoveAt / 1000,
		URL:         fmt.Sprintf("%s/%s", c.baseURL, lg.ID),
		PGN:         lg.PGN,
	}
}
