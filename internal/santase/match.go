package santase

// MatchTarget is the match score that ends a match.
const MatchTarget = 11

// GamePoints returns the game points a round winner earns given the loser's
// round score: 3 for valat, 2 for schneider, 1 otherwise.
func GamePoints(loserScore int) int {
	switch {
	case loserScore <= 0:
		return 3
	case loserScore < 33:
		return 2
	default:
		return 1
	}
}

// Match carries round results into the cumulative match score.
type Match struct {
	Round       Round
	Scores      [2]int
	Dealer      Seat
	Leader      Seat
	RoundNumber int
	// Folded is set once the current round's game points were added to Scores.
	Folded bool
}

// NewMatch deals the first round with a freshly shuffled deck and a random dealer.
func NewMatch() (Match, error) {
	return NewMatchWithDeck(Shuffle(NewDeck()), RandomSeat())
}

// NewMatchWithDeck deals the first round from deck.
func NewMatchWithDeck(deck []Card, dealer Seat) (Match, error) {
	r, err := DealInitialHands(deck, dealer)
	if err != nil {
		return Match{}, err
	}
	return Match{Round: r, Dealer: dealer, Leader: r.Leader, RoundNumber: 1}, nil
}

// Apply stores next as the current round and folds its game points into the
// match score once the round has ended.
func (m Match) Apply(next Round) Match {
	m.Round = next
	m.Leader = next.Turn()
	if next.Result != nil && !m.Folded {
		m.Folded = true
		if next.Result.Reason != ReasonForfeit {
			m.Scores[next.Result.Winner] += next.Result.GamePoints
		}
	}
	return m
}

func (m Match) act(op func(Round) (Round, error)) (Match, error) {
	if m.IsMatchOver() {
		return m, ErrMatchOver
	}
	next, err := op(m.Round)
	if err != nil {
		return m, err
	}
	next.CheckInvariant()
	return m.Apply(next), nil
}

// Play leads or follows with card depending on the state of the trick.
func (m Match) Play(actor Seat, card Card, marriage *Suit) (Match, error) {
	return m.act(func(r Round) (Round, error) {
		if r.CurrentTrick == nil {
			return r.PlayLead(actor, card, marriage)
		}
		if marriage != nil {
			return r, ErrInvalidMarriage
		}
		return r.PlayFollow(actor, card)
	})
}

// CloseDeck closes the stock for actor.
func (m Match) CloseDeck(actor Seat) (Match, error) {
	return m.act(func(r Round) (Round, error) { return r.CloseDeck(actor) })
}

// ExchangeTrumpNine swaps actor's nine of trumps for the trump card.
func (m Match) ExchangeTrumpNine(actor Seat) (Match, error) {
	return m.act(func(r Round) (Round, error) { return r.ExchangeTrumpNine(actor) })
}

// Declare66 resolves actor's claim to have reached 66.
func (m Match) Declare66(actor Seat) (Match, error) {
	return m.act(func(r Round) (Round, error) { return r.Declare66(actor) })
}

// CloseDeclareWindow ends an open declare-66 window.
func (m Match) CloseDeclareWindow() Match {
	m.Round = m.Round.CloseDeclareWindow()
	return m
}

// StartNewRound validates the finished round, folds its result and deals the
// next round with a freshly shuffled deck. The loser deals, the winner leads.
func (m Match) StartNewRound(asserted Seat) (Match, error) {
	return m.StartNewRoundWithDeck(asserted, Shuffle(NewDeck()))
}

// StartNewRoundWithDeck is StartNewRound with an explicit deck.
func (m Match) StartNewRoundWithDeck(asserted Seat, deck []Card) (Match, error) {
	res := m.Round.Result
	if res == nil {
		return m, ErrRoundNotOver
	}
	if res.Winner != asserted {
		return m, ErrWrongWinner
	}
	folded := m.Apply(m.Round)
	if folded.IsMatchOver() {
		return m, ErrMatchOver
	}
	dealer := asserted.Other()
	r, err := DealInitialHands(deck, dealer)
	if err != nil {
		return m, err
	}
	folded.Round = r
	folded.Dealer = dealer
	folded.Leader = asserted
	folded.RoundNumber++
	folded.Folded = false
	return folded, nil
}

// IsMatchOver reports whether either player reached the target.
func (m Match) IsMatchOver() bool {
	return m.Scores[0] >= MatchTarget || m.Scores[1] >= MatchTarget
}

// MatchWinner returns the winning seat once the match is over. A tie at or
// above the target is corrupted state and returns ErrTiedMatch.
func (m Match) MatchWinner() (Seat, bool, error) {
	if !m.IsMatchOver() {
		return 0, false, nil
	}
	if m.Scores[0] == m.Scores[1] {
		return 0, false, ErrTiedMatch
	}
	if m.Scores[0] > m.Scores[1] {
		return Seat0, true, nil
	}
	return Seat1, true, nil
}

// Forfeit awards winner the match. It reports false when the match was
// already over.
func (m Match) Forfeit(winner Seat) (Match, bool) {
	if !winner.Valid() || m.IsMatchOver() {
		return m, false
	}
	if !m.Round.Over() {
		r, err := m.Round.Forfeit(winner)
		if err != nil {
			return m, false
		}
		m = m.Apply(r)
	}
	m.Scores[winner] = MatchTarget
	return m, true
}
