package santase

import (
	"errors"
	"testing"
)

func newTestMatch(t *testing.T) Match {
	t.Helper()
	m, err := NewMatchWithDeck(NewDeck(), Seat0)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return m
}

func TestGamePoints(t *testing.T) {
	cases := []struct{ loser, want int }{
		{0, 3},
		{1, 2},
		{32, 2},
		{33, 1},
		{65, 1},
		{90, 1},
	}
	for _, tc := range cases {
		if got := GamePoints(tc.loser); got != tc.want {
			t.Fatalf("loser score %d: expected %d game points, got %d", tc.loser, tc.want, got)
		}
	}
}

func TestNewMatch(t *testing.T) {
	m, err := NewMatch()
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	if m.Scores != [2]int{} {
		t.Fatalf("scores should start at zero, got %v", m.Scores)
	}
	if m.Leader != m.Dealer.Other() || m.Round.Leader != m.Leader {
		t.Fatalf("non-dealer should lead: dealer %d leader %d", m.Dealer, m.Leader)
	}
	if m.RoundNumber != 1 {
		t.Fatalf("expected round 1, got %d", m.RoundNumber)
	}
}

func TestDeclareFoldsIntoMatchScore(t *testing.T) {
	m := newTestMatch(t)
	m.Round.Scores = [2]int{20, 70}
	m.Round.DeclareWindow = seatPtr(Seat1)

	m, err := m.Declare66(Seat1)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if m.Scores != [2]int{0, 2} {
		t.Fatalf("expected schneider for seat 1, got %v", m.Scores)
	}
	if !m.Folded {
		t.Fatal("finished round should be folded")
	}
	if _, err := m.Play(Seat0, m.Round.Hands[0][0], nil); err != ErrRoundOver {
		t.Fatalf("expected ErrRoundOver, got %v", err)
	}

	next, err := m.StartNewRoundWithDeck(Seat1, NewDeck())
	if err != nil {
		t.Fatalf("start new round: %v", err)
	}
	if next.Scores != [2]int{0, 2} {
		t.Fatalf("game points must be folded once, got %v", next.Scores)
	}
	if next.Dealer != Seat0 || next.Leader != Seat1 || next.Round.Leader != Seat1 {
		t.Fatalf("loser should deal and winner lead: dealer %d leader %d", next.Dealer, next.Leader)
	}
	if next.RoundNumber != 2 || next.Folded || next.Round.Over() {
		t.Fatalf("expected a fresh second round, got %+v", next.Round.Result)
	}
}

func TestStartNewRoundValidation(t *testing.T) {
	m := newTestMatch(t)
	if _, err := m.StartNewRound(Seat0); err != ErrRoundNotOver {
		t.Fatalf("expected ErrRoundNotOver, got %v", err)
	}
	m.Round.Scores = [2]int{66, 0}
	m.Round.DeclareWindow = seatPtr(Seat0)
	m, _ = m.Declare66(Seat0)
	if _, err := m.StartNewRound(Seat1); err != ErrWrongWinner {
		t.Fatalf("expected ErrWrongWinner, got %v", err)
	}
	if _, err := m.StartNewRound(Seat0); err != nil {
		t.Fatalf("start new round: %v", err)
	}
}

func TestDecidingRoundEndsMatch(t *testing.T) {
	m := newTestMatch(t)
	m.Scores = [2]int{10, 4}
	m.Round.Scores = [2]int{70, 40}
	m.Round.DeclareWindow = seatPtr(Seat0)
	m, err := m.Declare66(Seat0)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if !m.IsMatchOver() {
		t.Fatalf("match should be over at %v", m.Scores)
	}
	winner, ok, err := m.MatchWinner()
	if err != nil || !ok || winner != Seat0 {
		t.Fatalf("expected seat 0 to win, got %d %v %v", winner, ok, err)
	}
	if _, err := m.StartNewRound(Seat0); err != ErrMatchOver {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
	if _, err := m.CloseDeck(Seat0); err != ErrMatchOver {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
}

func TestMatchWinner(t *testing.T) {
	cases := []struct {
		scores [2]int
		winner Seat
		ok     bool
		err    error
	}{
		{[2]int{3, 4}, 0, false, nil},
		{[2]int{11, 5}, Seat0, true, nil},
		{[2]int{9, 12}, Seat1, true, nil},
		{[2]int{11, 11}, 0, false, ErrTiedMatch},
	}
	for _, tc := range cases {
		m := Match{Scores: tc.scores}
		winner, ok, err := m.MatchWinner()
		if !errors.Is(err, tc.err) || ok != tc.ok || (ok && winner != tc.winner) {
			t.Fatalf("scores %v: got %d %v %v", tc.scores, winner, ok, err)
		}
	}
}

func TestMatchForfeit(t *testing.T) {
	m := newTestMatch(t)
	m.Scores = [2]int{4, 7}
	m, ok := m.Forfeit(Seat0)
	if !ok {
		t.Fatal("first forfeit should succeed")
	}
	if m.Scores != [2]int{11, 7} {
		t.Fatalf("expected winner on 11 and loser unchanged, got %v", m.Scores)
	}
	if m.Round.Result == nil || m.Round.Result.Reason != ReasonForfeit {
		t.Fatalf("round should end by forfeit, got %+v", m.Round.Result)
	}
	again, ok := m.Forfeit(Seat1)
	if ok || again.Scores != m.Scores {
		t.Fatalf("second forfeit must be a no-op, got %v %v", ok, again.Scores)
	}
}

func TestMatchPlayLeadsAndFollows(t *testing.T) {
	m := newTestMatch(t) // seat 1 leads
	lead := m.Round.Hands[1][0]
	m, err := m.Play(Seat1, lead, nil)
	if err != nil {
		t.Fatalf("lead: %v", err)
	}
	if m.Leader != Seat0 {
		t.Fatalf("follower should be next to act, got %d", m.Leader)
	}
	if _, err := m.Play(Seat0, m.Round.Hands[0][0], suitPtr(Hearts)); err != ErrInvalidMarriage {
		t.Fatalf("a follow cannot declare a marriage, got %v", err)
	}
	m, err = m.Play(Seat0, m.Round.Hands[0][0], nil)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if m.Round.LastTrick == nil {
		t.Fatal("trick should be resolved")
	}
}
