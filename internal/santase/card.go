package santase

import (
	"encoding/json"
	"strings"
)

// Suit represents a card suit.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in canonical order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}

func (s Suit) String() string {
	if s < Hearts || s > Spades {
		return "unknown"
	}
	return suitNames[s]
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s >= Hearts && s <= Spades }

// Rank represents a card rank. The numeric order is the trick order.
type Rank int

const (
	Nine Rank = iota
	Jack
	Queen
	King
	Ten
	Ace
)

// Ranks lists every rank from lowest to highest trick strength.
var Ranks = []Rank{Nine, Jack, Queen, King, Ten, Ace}

var rankNames = [...]string{"9", "J", "Q", "K", "10", "A"}

func (r Rank) String() string {
	if r < Nine || r > Ace {
		return "?"
	}
	return rankNames[r]
}

// Valid reports whether r is one of the six ranks.
func (r Rank) Valid() bool { return r >= Nine && r <= Ace }

// Points returns the trick value of the rank.
func (r Rank) Points() int {
	switch r {
	case Ace:
		return 11
	case Ten:
		return 10
	case King:
		return 4
	case Queen:
		return 3
	case Jack:
		return 2
	default:
		return 0
	}
}

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string { return c.Rank.String() + " of " + c.Suit.String() }

// Points returns the trick value of the card.
func (c Card) Points() int { return c.Rank.Points() }

// Valid reports whether both suit and rank are in range.
func (c Card) Valid() bool { return c.Suit.Valid() && c.Rank.Valid() }

// ParseSuit converts a wire literal into a Suit.
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hearts", "heart", "h", "♥":
		return Hearts, nil
	case "diamonds", "diamond", "d", "♦":
		return Diamonds, nil
	case "clubs", "club", "c", "♣":
		return Clubs, nil
	case "spades", "spade", "s", "♠":
		return Spades, nil
	}
	return 0, ErrInvalidCard
}

// ParseRank converts a wire literal into a Rank.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "9", "NINE":
		return Nine, nil
	case "J", "JACK":
		return Jack, nil
	case "Q", "QUEEN":
		return Queen, nil
	case "K", "KING":
		return King, nil
	case "10", "T", "TEN":
		return Ten, nil
	case "A", "ACE":
		return Ace, nil
	}
	return 0, ErrInvalidCard
}

// ParseCard validates a suit and rank literal pair.
func ParseCard(suit, rank string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

func (s Suit) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Suit) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return ErrInvalidCard
	}
	v, err := ParseSuit(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r Rank) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *Rank) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		// accept bare numbers such as 9 and 10
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return ErrInvalidCard
		}
		raw = strings.TrimSpace(string(b))
	}
	v, err := ParseRank(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func containsCard(cards []Card, c Card) bool {
	return indexOfCard(cards, c) >= 0
}

func indexOfCard(cards []Card, c Card) int {
	for i, x := range cards {
		if x == c {
			return i
		}
	}
	return -1
}

func removeCard(cards []Card, c Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, x := range cards {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

func sumPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}
