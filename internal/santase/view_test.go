package santase

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestViewHidesOpponentAndStock(t *testing.T) {
	m := Match{
		Round: Round{
			Hands: [2][]Card{
				{{Hearts, Ace}, {Hearts, Ten}},
				{{Clubs, Ace}, {Clubs, Ten}, {Clubs, King}},
			},
			Stock:     []Card{{Diamonds, Ace}, {Diamonds, Ten}},
			TrumpCard: cardPtr(Card{Spades, Jack}),
			TrumpSuit: Spades,
			Leader:    Seat0,
			Won:       [2][]Card{{}, {}},
			Scores:    [2]int{12, 44},
		},
		Scores: [2]int{3, 5},
	}

	v := m.View(Seat0)
	if len(v.Hand) != 2 || v.Hand[0] != (Card{Hearts, Ace}) {
		t.Fatalf("viewer should see its own hand, got %v", v.Hand)
	}
	if v.OpponentHandCount != 3 {
		t.Fatalf("expected opponent count 3, got %d", v.OpponentHandCount)
	}
	if v.StockCount != 2 {
		t.Fatalf("expected stock count 2, got %d", v.StockCount)
	}
	if v.MyScore != 12 || v.OpponentScore != nil {
		t.Fatalf("expected own score only, got %d / %v", v.MyScore, v.OpponentScore)
	}
	if v.MatchScores != [2]int{3, 5} || v.TrumpCard == nil || *v.TrumpCard != (Card{Spades, Jack}) {
		t.Fatal("shared state should stay visible")
	}
	if !v.YourTurn || len(v.LegalCards) != 2 {
		t.Fatalf("leader should see its legal cards, got %v", v.LegalCards)
	}

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, hidden := range []string{`"suit":"clubs"`, `"suit":"diamonds"`, "44"} {
		if strings.Contains(string(b), hidden) {
			t.Fatalf("view leaked %s: %s", hidden, b)
		}
	}

	other := m.View(Seat1)
	if len(other.Hand) != 3 || other.OpponentHandCount != 2 || other.YourTurn || len(other.LegalCards) != 0 {
		t.Fatalf("unexpected view for seat 1: %+v", other)
	}
}

func TestViewDoesNotAliasState(t *testing.T) {
	m := newTestMatch(t)
	orig := m.Round.Hands[0][0]
	v := m.View(Seat0)
	v.Hand[0] = Card{Spades, Ace}
	v.LegalCards = append(v.LegalCards[:0], Card{Spades, Ace})
	if m.Round.Hands[0][0] != orig {
		t.Fatal("mutating a view changed the match")
	}
}
