// Package games orchestrates game-history retrieval: linked-account lookup,
// platform fetch, normalization, caching, filtering, and aggregate stats.
package games

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/cache"
	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/normalize"
	"github.com/kapu/chess-learn-go/internal/platform"
	"github.com/kapu/chess-learn-go/internal/store"
	"github.com/kapu/chess-learn-go/pkg/gamedto"
)

var ErrNoLinkedAccount = errors.New("no linked account for platform")

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Fetcher retrieves raw games for a platform handle.
type Fetcher interface {
	FetchGames(ctx context.Context, username string, limit int) (*platform.FetchResult, error)
}

type Service struct {
	store    store.Store
	cache    *cache.Cache
	fetchers map[string]Fetcher
	ttl      time.Duration
	logger   *zap.Logger
}

// cachedBatch is the unit stored in Redis: one normalized fetch result.
// Filters are applied per request, not per cache entry.
type cachedBatch struct {
	Games         []domain.Game `json:"games"`
	MonthsChecked int           `json:"months_checked"`
}

func NewService(st store.Store, c *cache.Cache, fetchers map[string]Fetcher, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if len(fetchers) == 0 {
		return nil, fmt.Errorf("at least one platform fetcher is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, cache: c, fetchers: fetchers, ttl: ttl, logger: logger}, nil
}

// FetchHistory returns the user's normalized game history for one platform,
// filtered and annotated with aggregate stats. A platform failure aborts the
// whole operation; there are no partial results.
func (s *Service) FetchHistory(ctx context.Context, userID, platformName string, limit int, filter normalize.Filter) (*gamedto.HistoryResponse, error) {
	platformName = strings.ToLower(strings.TrimSpace(platformName))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	link, ok := user.Accounts[platformName]
	if !ok {
		return nil, ErrNoLinkedAccount
	}

	fetcher, ok := s.fetchers[platformName]
	if !ok {
		return nil, ErrNoLinkedAccount
	}

	key := batchKey(platformName, link.Username, limit)
	var batch cachedBatch
	cached := false
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, &batch)
		if err != nil {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		cached = hit
	}

	if !cached {
		res, err := fetcher.FetchGames(ctx, link.Username, limit)
		if err != nil {
			return nil, err
		}
		batch = cachedBatch{
			Games:         normalize.Batch(res.Games, link.Username),
			MonthsChecked: res.MonthsChecked,
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, batch, s.ttl); err != nil {
				s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		if err := s.store.AddGamesImported(ctx, userID, len(batch.Games)); err != nil {
			s.logger.Warn("games_imported update failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	games := batch.Games
	if !filter.IsZero() {
		games = normalize.Apply(games, filter)
	}
	stats := normalize.ComputeStats(games)

	return &gamedto.HistoryResponse{
		Platform:      platformName,
		Username:      link.Username,
		Games:         games,
		TotalFound:    len(batch.Games),
		Requested:     limit,
		MonthsChecked: batch.MonthsChecked,
		Message:       historyMessage(len(batch.Games), batch.MonthsChecked),
		Stats:         &stats,
		Cached:        cached,
	}, nil
}

func batchKey(platformName, handle string, limit int) string {
	return fmt.Sprintf("games:%s:%s:%d", platformName, strings.ToLower(handle), limit)
}

func historyMessage(total, monthsChecked int) string {
	if monthsChecked > 0 {
		return fmt.Sprintf("Found %d games across %d months", total, monthsChecked)
	}
	return fmt.Sprintf("Found %d games", total)
}
