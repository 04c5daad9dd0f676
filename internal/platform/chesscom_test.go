package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func archiveJSON(endTimes ...int64) string {
	out := `{"games":[`
	for i, et := range endTimes {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"uuid":"g%d","end_time":%d,"white":{"username":"a","result":"win"},"black":{"username":"b","result":"checkmated"},"time_control":"300"}`, et, et)
	}
	return out + `]}`
}

func newChessComFixture(t *testing.T, handler http.Handler) *ChessComClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewChessCom(NewClient(WithTimeout(2*time.Second)), srv.URL, zap.NewNop())
	c.now = fixedNow
	return c
}

func TestChessCom_WalksMonthsUntilLimit(t *testing.T) {
	months := map[string]string{
		"/pub/player/alice/games/2024/03": archiveJSON(300, 301),
		"/pub/player/alice/games/2024/02": archiveJSON(200, 201, 202),
	}
	var requested []string
	c := newChessComFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		body, ok := months[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))

	res, err := c.FetchGames(context.Background(), "alice", 4)
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(res.Games) != 4 {
		t.Fatalf("expected 4 games, got %d", len(res.Games))
	}
	// Newest first across month boundaries.
	if res.Games[0].UUID != "g301" || res.Games[3].UUID != "g201" {
		t.Fatalf("unexpected order: first=%s last=%s", res.Games[0].UUID, res.Games[3].UUID)
	}
	if res.MonthsChecked != 2 {
		t.Fatalf("expected 2 months checked, got %d", res.MonthsChecked)
	}
	if len(requested) != 2 {
		t.Fatalf("expected 2 archive requests, got %v", requested)
	}
}

func TestChessCom_MissingMonthIsSkipped(t *testing.T) {
	months := map[string]string{
		"/pub/player/alice/games/2024/01": archiveJSON(100),
	}
	c := newChessComFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := months[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))

	res, err := c.FetchGames(context.Background(), "alice", 5)
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(res.Games) != 1 || res.Games[0].UUID != "g100" {
		t.Fatalf("expected the single January game, got %+v", res.Games)
	}
	if res.MonthsChecked != maxMonthsToCheck {
		t.Fatalf("expected full walk, got %d months", res.MonthsChecked)
	}
}

func TestChessCom_ServerErrorAbortsFetch(t *testing.T) {
	c := newChessComFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	if _, err := c.FetchGames(context.Background(), "alice", 3); err == nil {
		t.Fatalf("expected error on upstream failure")
	}
}

func TestChessCom_VerifyAccount(t *testing.T) {
	c := newChessComFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pub/player/alice" {
			fmt.Fprint(w, `{"username":"alice","player_id":7}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.VerifyAccount(context.Background(), "alice"); err != nil {
		t.Fatalf("VerifyAccount(alice): %v", err)
	}
	_, err := c.VerifyAccount(context.Background(), "ghost")
	if err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
