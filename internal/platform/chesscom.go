package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/normalize"
)

const (
	// Archives older than this are never consulted.
	maxMonthsToCheck = 6

	DefaultChessComBaseURL = "https://api.chess.com"
)

// FetchResult is one platform's raw game batch before normalization.
type FetchResult struct {
	Platform      string
	Username      string
	Games         []normalize.RawGame
	MonthsChecked int
}

// ChessComClient reads the Chess.com published-data API. Game history is
// organized as monthly archives, so fetching walks months backwards from
// the current one until enough games are collected.
type ChessComClient struct {
	client  *Client
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewChessCom(client *Client, baseURL string, logger *zap.Logger) *ChessComClient {
	if baseURL == "" {
		baseURL = DefaultChessComBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChessComClient{
		client:  client,
		baseURL: trimBase(baseURL),
		logger:  logger,
		now:     time.Now,
	}
}

// VerifyAccount checks that the handle exists, returning the platform's
// profile document for storage alongside the link.
func (c *ChessComClient) VerifyAccount(ctx context.Context, username string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/pub/player/%s", c.baseURL, username)
	var raw json.RawMessage
	if err := c.client.getJSON(ctx, url, &raw, true); err != nil {
		return nil, err
	}
	return raw, nil
}

type monthArchive struct {
	Games []normalize.RawGame `json:"games"`
}

// FetchGames walks monthly archives backwards until limit games are
// collected or maxMonthsToCheck months have been consulted. A missing
// month (404) is skipped; any other failure aborts the whole fetch with no
// partial result.
func (c *ChessComClient) FetchGames(ctx context.Context, username string, limit int) (*FetchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	var all []normalize.RawGame
	cursor := c.now().UTC()
	monthsChecked := 0

	for len(all) < limit && monthsChecked < maxMonthsToCheck {
		url := fmt.Sprintf("%s/pub/player/%s/games/%d/%02d", c.baseURL, username, cursor.Year(), int(cursor.Month()))

		var archive monthArchive
		err := c.client.getJSON(ctx, url, &archive, false)
		switch {
		case errors.Is(err, ErrAccountNotFound):
			// No archive for this month; keep walking.
		case err != nil:
			return nil, fmt.Errorf("fetch chess.com archive %d/%02d: %w", cursor.Year(), int(cursor.Month()), err)
		default:
			c.logger.Debug("chess.com archive fetched",
				zap.String("username", username),
				zap.Int("year", cursor.Year()),
				zap.Int("month", int(cursor.Month())),
				zap.Int("games", len(archive.Games)),
			)
			if len(archive.Games) == 0 && len(all) > 0 {
				monthsChecked++
				return c.result(username, all, limit, monthsChecked), nil
			}
			all = append(all, archive.Games...)
		}

		cursor = previousMonth(cursor)
		monthsChecked++
	}

	return c.result(username, all, limit, monthsChecked), nil
}

func (c *ChessComClient) result(username string, games []normalize.RawGame, limit, monthsChecked int) *FetchResult {
	// Newest first, then cap at the requested count.
	sort.SliceStable(games, func(i, j int) bool { return games[i].EndTime > games[j].EndTime })
	if len(games) > limit {
		games = games[:limit]
	}
	return &FetchResult{
		Platform:      "chess.com",
		Username:      username,
		Games:         games,
		MonthsChecked: monthsChecked,
	}
}

func previousMonth(t time.Time) time.Time {
	year, month := t.Year(), t.Month()
	if month == time.January {
		return time.Date(year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
}
