package santase

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 24

// NewDeck returns the 24-card deck in canonical order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a Fisher–Yates permutation of deck. The input is left untouched.
func Shuffle(deck []Card) []Card {
	out := append([]Card(nil), deck...)
	for i := len(out) - 1; i > 0; i-- {
		j := randomIndex(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// RandomSeat picks one of the two seats uniformly.
func RandomSeat() Seat {
	return Seat(randomIndex(2))
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("santase: crypto/rand unavailable: %v", err))
	}
	return int(v.Int64())
}

func validDeck(deck []Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("%w: deck has %d cards", ErrInvalidDeck, len(deck))
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrInvalidDeck, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %v", ErrInvalidDeck, c)
		}
		seen[c] = true
	}
	return nil
}
