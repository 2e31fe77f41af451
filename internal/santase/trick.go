package santase

// Seat identifies one of the two players by position.
type Seat int

const (
	Seat0 Seat = 0
	Seat1 Seat = 1
)

// Other returns the opposing seat.
func (s Seat) Other() Seat { return 1 - s }

// Valid reports whether s is 0 or 1.
func (s Seat) Valid() bool { return s == Seat0 || s == Seat1 }

// CompareCards compares two cards of the same suit by rank order.
// It returns 1 if a is higher, -1 if b is higher and 0 when there is no winner.
func CompareCards(a, b Card) int {
	switch {
	case a.Rank > b.Rank:
		return 1
	case a.Rank < b.Rank:
		return -1
	default:
		return 0
	}
}

// TrickWinner is the side that takes a trick.
type TrickWinner int

const (
	LeaderWins TrickWinner = iota
	FollowerWins
)

// CompareTrick decides which of the two played cards takes the trick.
func CompareTrick(leader, follower Card, ledSuit, trump Suit) TrickWinner {
	lTrump, fTrump := leader.Suit == trump, follower.Suit == trump
	switch {
	case fTrump && !lTrump:
		return FollowerWins
	case lTrump && !fTrump:
		return LeaderWins
	case lTrump && fTrump:
		if CompareCards(follower, leader) > 0 {
			return FollowerWins
		}
		return LeaderWins
	}
	lLed, fLed := leader.Suit == ledSuit, follower.Suit == ledSuit
	switch {
	case fLed && !lLed:
		return FollowerWins
	case fLed && lLed:
		if CompareCards(follower, leader) > 0 {
			return FollowerWins
		}
	}
	return LeaderWins
}

// ValidFollowerCards returns the cards a follower may answer led with.
// While the stock is open any card is legal; once it is closed or exhausted
// the follower must head the trick when able.
func ValidFollowerCards(hand []Card, led Card, trump Suit, closedOrExhausted bool) []Card {
	if !closedOrExhausted {
		return append([]Card(nil), hand...)
	}

	var sameSuit, beating []Card
	for _, c := range hand {
		if c.Suit != led.Suit {
			continue
		}
		sameSuit = append(sameSuit, c)
		if CompareCards(c, led) > 0 {
			beating = append(beating, c)
		}
	}
	if len(beating) > 0 {
		return beating
	}
	if len(sameSuit) > 0 {
		return sameSuit
	}

	// void in the led suit; a led trump was already handled above
	var trumps []Card
	for _, c := range hand {
		if c.Suit == trump {
			trumps = append(trumps, c)
		}
	}
	if len(trumps) > 0 {
		return trumps
	}
	return append([]Card(nil), hand...)
}
