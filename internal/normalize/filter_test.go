package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kapu/chess-learn-go/internal/domain"
)

func testGames() []domain.Game {
	return []domain.Game{
		{ID: "1", White: "me", Black: "a", UserColor: domain.White, Result: "1-0", TimeClass: domain.TimeClassBlitz, OpeningName: "Italian Game", ECO: "C50"},
		{ID: "2", White: "b", Black: "me", UserColor: domain.Black, Result: "0-1", TimeClass: domain.TimeClassBullet},
		{ID: "3", White: "me", Black: "c", UserColor: domain.White, Result: "0-1", TimeClass: domain.TimeClassBlitz},
		{ID: "4", White: "d", Black: "me", UserColor: domain.Black, Result: "1/2-1/2", TimeClass: domain.TimeClassRapid, ECO: "B01"},
		{ID: "5", White: "me", Black: "e", UserColor: domain.White, Result: "unknown", TimeClass: domain.TimeClassClassical},
	}
}

func ids(games []domain.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func TestApply_WinsBucket(t *testing.T) {
	// A win is white+1-0 or black+0-1 from the viewer's seat.
	got := Apply(testGames(), Filter{Result: BucketWins})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestApply_LossesAndDraws(t *testing.T) {
	assert.Equal(t, []string{"3"}, ids(Apply(testGames(), Filter{Result: BucketLosses})))
	assert.Equal(t, []string{"4"}, ids(Apply(testGames(), Filter{Result: BucketDraws})))
}

func TestApply_Conjunctive(t *testing.T) {
	got := Apply(testGames(), Filter{Result: BucketWins, TimeClass: "blitz"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Apply(testGames(), Filter{Color: "black", TimeClass: "bullet"})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApply_Search(t *testing.T) {
	assert.Equal(t, []string{"1"}, ids(Apply(testGames(), Filter{Search: "italian"})))
	assert.Equal(t, []string{"4"}, ids(Apply(testGames(), Filter{Search: "B01"})))
	assert.Empty(t, Apply(testGames(), Filter{Search: "nobody"}))
}

func TestApply_ZeroFilterReturnsAll(t *testing.T) {
	games := testGames()
	assert.Equal(t, len(games), len(Apply(games, Filter{})))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(testGames())
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 1, s.Unknown)
	assert.Equal(t, "40.0", s.WinRate)
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, "0", s.WinRate)
}
