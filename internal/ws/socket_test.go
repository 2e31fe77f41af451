package ws

import (
	"fmt"
	"testing"

	"github.com/kiliankoe/santase/internal/game"
	"github.com/kiliankoe/santase/internal/santase"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   cardPayload
		want santase.Card
		ok   bool
	}{
		{cardPayload{Suit: "hearts", Rank: "A"}, santase.Card{Suit: santase.Hearts, Rank: santase.Ace}, true},
		{cardPayload{Suit: "spades", Rank: float64(9)}, santase.Card{Suit: santase.Spades, Rank: santase.Nine}, true},
		{cardPayload{Suit: "spades", Rank: nil}, santase.Card{}, false},
		{cardPayload{Suit: "stars", Rank: "K"}, santase.Card{}, false},
		{cardPayload{Suit: "clubs", Rank: float64(8)}, santase.Card{}, false},
	}
	for _, tt := range tests {
		got, err := parseCard(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("parseCard(%+v) err = %v, ok want %v", tt.in, err, tt.ok)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("parseCard(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMarriage(t *testing.T) {
	if s, err := parseMarriage(""); err != nil || s != nil {
		t.Fatalf("empty marriage = %v, %v", s, err)
	}
	s, err := parseMarriage("clubs")
	if err != nil || s == nil || *s != santase.Clubs {
		t.Fatalf("clubs marriage = %v, %v", s, err)
	}
	if _, err := parseMarriage("moons"); err == nil {
		t.Fatalf("expected error for unknown suit")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{santase.ErrNotYourTurn, santase.ErrNotYourTurn.Code},
		{fmt.Errorf("wrapped: %w", santase.ErrMustHead), "illegal_follow"},
		{game.ErrRoomNotFound, "room_not_found"},
		{game.ErrNotHost, "unauthorized"},
		{game.ErrRoomFull, "room_full"},
		{game.ErrMatchFinished, "match_finished"},
		{fmt.Errorf("boom"), "bad_request"},
	}
	for _, tt := range tests {
		if got, _ := errorCode(tt.err); got != tt.code {
			t.Fatalf("errorCode(%v) = %q, want %q", tt.err, got, tt.code)
		}
	}
}
