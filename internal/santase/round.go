package santase

import "fmt"

// WinThreshold is the round score a player must reach to declare 66.
const WinThreshold = 66

// Reason explains how a round ended.
type Reason string

const (
	ReasonDeclared66       Reason = "declared_66"
	ReasonFalseDeclaration Reason = "false_declaration"
	ReasonExhausted        Reason = "exhausted"
	ReasonClosedFailed     Reason = "closed_failed"
	ReasonForfeit          Reason = "forfeit"
)

// RoundResult is the terminal outcome of a round.
type RoundResult struct {
	Winner     Seat   `json:"winner"`
	GamePoints int    `json:"gamePoints"`
	Reason     Reason `json:"reason"`
}

// Trick is a lead waiting for the follower's answer.
type Trick struct {
	Leader     Seat  `json:"leader"`
	LeaderCard Card  `json:"leaderCard"`
	Marriage   *Suit `json:"marriage,omitempty"`
}

// CompletedTrick is the most recently resolved trick.
type CompletedTrick struct {
	Leader       Seat `json:"leader"`
	LeaderCard   Card `json:"leaderCard"`
	FollowerCard Card `json:"followerCard"`
	Winner       Seat `json:"winner"`
}

// Round is the state of a single deal. Operations never modify the receiver;
// they return the next state, or the receiver and a *RuleError.
type Round struct {
	Hands         [2][]Card
	Stock         []Card
	TrumpCard     *Card
	TrumpSuit     Suit
	Closed        bool
	ClosedBy      *Seat
	Leader        Seat
	CurrentTrick  *Trick
	LastTrick     *CompletedTrick
	Won           [2][]Card
	Scores        [2]int
	Marriages     []Suit
	DeclareWindow *Seat
	Result        *RoundResult
}

// DealInitialHands deals a shuffled deck. The non-dealer receives the first
// packet of three and leads the first trick.
func DealInitialHands(shuffled []Card, dealer Seat) (Round, error) {
	if !dealer.Valid() {
		return Round{}, ErrInvalidSeat
	}
	if err := validDeck(shuffled); err != nil {
		return Round{}, err
	}
	first := dealer.Other()
	var r Round
	next := 0
	take := func(seat Seat, n int) {
		r.Hands[seat] = append(r.Hands[seat], shuffled[next:next+n]...)
		next += n
	}
	take(first, 3)
	take(dealer, 3)
	take(first, 3)
	take(dealer, 3)
	trump := shuffled[next]
	next++
	r.TrumpCard = &trump
	r.TrumpSuit = trump.Suit
	r.Stock = append([]Card(nil), shuffled[next:]...)
	r.Leader = first
	r.Won = [2][]Card{{}, {}}
	return r, nil
}

func (r Round) clone() Round {
	n := r
	n.Hands = [2][]Card{append([]Card(nil), r.Hands[0]...), append([]Card(nil), r.Hands[1]...)}
	n.Won = [2][]Card{append([]Card(nil), r.Won[0]...), append([]Card(nil), r.Won[1]...)}
	n.Stock = append([]Card(nil), r.Stock...)
	n.Marriages = append([]Suit(nil), r.Marriages...)
	return n
}

// Over reports whether the round has a result.
func (r Round) Over() bool { return r.Result != nil }

// Turn returns the seat expected to act next.
func (r Round) Turn() Seat {
	if r.CurrentTrick != nil {
		return r.Leader.Other()
	}
	return r.Leader
}

// StockExhausted reports whether every stock card including the trump card was drawn.
func (r Round) StockExhausted() bool { return len(r.Stock) == 0 && r.TrumpCard == nil }

// MustHead reports whether the follow-suit rules are in force.
func (r Round) MustHead() bool { return r.Closed || r.StockExhausted() }

// MarriageDeclared reports whether a marriage in suit was already declared.
func (r Round) MarriageDeclared(s Suit) bool {
	for _, m := range r.Marriages {
		if m == s {
			return true
		}
	}
	return false
}

// CanDeclare reports whether seat is inside its declare-66 window.
func (r Round) CanDeclare(seat Seat) bool {
	return r.Result == nil && r.DeclareWindow != nil && *r.DeclareWindow == seat
}

// LegalCards returns the cards seat may play right now.
func (r Round) LegalCards(seat Seat) []Card {
	if r.Result != nil || !seat.Valid() || seat != r.Turn() {
		return nil
	}
	if r.CurrentTrick == nil {
		return append([]Card(nil), r.Hands[seat]...)
	}
	return ValidFollowerCards(r.Hands[seat], r.CurrentTrick.LeaderCard, r.TrumpSuit, r.MustHead())
}

// Count returns the number of cards accounted for by the round.
func (r Round) Count() int {
	n := len(r.Stock) + len(r.Hands[0]) + len(r.Hands[1]) + len(r.Won[0]) + len(r.Won[1])
	if r.TrumpCard != nil {
		n++
	}
	if r.CurrentTrick != nil {
		n++
	}
	return n
}

// CheckInvariant panics when cards were lost or duplicated.
func (r Round) CheckInvariant() {
	if c := r.Count(); c != DeckSize {
		panic(InvariantError(fmt.Sprintf("round accounts for %d cards", c)))
	}
}

func (r Round) checkActor(actor Seat) error {
	if r.Result != nil {
		return ErrRoundOver
	}
	if !actor.Valid() {
		return ErrInvalidSeat
	}
	return nil
}

// PlayLead leads card for actor. A non-nil marriage declares the King and
// Queen of that suit, which must be the suit of the led card.
func (r Round) PlayLead(actor Seat, card Card, marriage *Suit) (Round, error) {
	if err := r.checkActor(actor); err != nil {
		return r, err
	}
	if r.CurrentTrick != nil {
		return r, ErrTrickInProgress
	}
	if actor != r.Leader {
		return r, ErrNotYourTurn
	}
	hand := r.Hands[actor]
	if !containsCard(hand, card) {
		return r, ErrCardNotInHand
	}

	points := 0
	if marriage != nil {
		if *marriage != card.Suit || (card.Rank != King && card.Rank != Queen) {
			return r, ErrInvalidMarriage
		}
		partner := Card{Suit: card.Suit, Rank: King}
		if card.Rank == King {
			partner.Rank = Queen
		}
		if !containsCard(hand, partner) {
			return r, ErrInvalidMarriage
		}
		if r.MarriageDeclared(card.Suit) {
			return r, ErrMarriageDeclared
		}
		points = 20
		if card.Suit == r.TrumpSuit {
			points = 40
		}
	}

	n := r.clone()
	n.Hands[actor] = removeCard(hand, card)
	n.DeclareWindow = nil
	trick := &Trick{Leader: actor, LeaderCard: card}
	if marriage != nil {
		suit := card.Suit
		trick.Marriage = &suit
		n.Marriages = append(n.Marriages, suit)
		n.Scores[actor] += points
		n.DeclareWindow = &actor
	}
	n.CurrentTrick = trick
	return n, nil
}

// PlayFollow answers the current lead, resolves the trick, draws from the
// stock and ends the round when both hands are empty.
func (r Round) PlayFollow(actor Seat, card Card) (Round, error) {
	if err := r.checkActor(actor); err != nil {
		return r, err
	}
	if r.CurrentTrick == nil {
		return r, ErrNoTrick
	}
	if actor != r.Leader.Other() {
		return r, ErrNotYourTurn
	}
	hand := r.Hands[actor]
	if !containsCard(hand, card) {
		return r, ErrCardNotInHand
	}
	led := r.CurrentTrick.LeaderCard
	if r.MustHead() && !containsCard(ValidFollowerCards(hand, led, r.TrumpSuit, true), card) {
		return r, ErrMustHead
	}

	n := r.clone()
	n.Hands[actor] = removeCard(hand, card)
	winner := r.Leader
	if CompareTrick(led, card, led.Suit, r.TrumpSuit) == FollowerWins {
		winner = actor
	}
	n.Won[winner] = append(n.Won[winner], led, card)
	n.Scores[winner] += led.Points() + card.Points()
	n.LastTrick = &CompletedTrick{Leader: r.Leader, LeaderCard: led, FollowerCard: card, Winner: winner}
	n.CurrentTrick = nil
	n.Leader = winner
	n.DeclareWindow = &winner

	if !n.Closed {
		n.draw(winner)
	}
	if len(n.Hands[0]) == 0 && len(n.Hands[1]) == 0 {
		n.finishExhausted(winner)
	}
	return n, nil
}

// draw refills both hands from the stock, winner first. When only the last
// stock card and the trump card remain the loser takes the trump card.
func (r *Round) draw(winner Seat) {
	loser := winner.Other()
	switch {
	case len(r.Stock) >= 2:
		r.Hands[winner] = append(r.Hands[winner], r.Stock[0])
		r.Hands[loser] = append(r.Hands[loser], r.Stock[1])
		r.Stock = r.Stock[2:]
	case len(r.Stock) == 1 && r.TrumpCard != nil:
		r.Hands[winner] = append(r.Hands[winner], r.Stock[0])
		r.Hands[loser] = append(r.Hands[loser], *r.TrumpCard)
		r.Stock = r.Stock[:0]
		r.TrumpCard = nil
	case len(r.Stock) == 0 && r.TrumpCard != nil:
		r.Hands[winner] = append(r.Hands[winner], *r.TrumpCard)
		r.TrumpCard = nil
	}
}

func (r *Round) finishExhausted(lastWinner Seat) {
	r.DeclareWindow = nil
	if r.Closed && r.ClosedBy != nil && r.Scores[*r.ClosedBy] < WinThreshold {
		r.Result = &RoundResult{Winner: r.ClosedBy.Other(), GamePoints: 3, Reason: ReasonClosedFailed}
		return
	}
	r.Result = &RoundResult{
		Winner:     lastWinner,
		GamePoints: GamePoints(r.Scores[lastWinner.Other()]),
		Reason:     ReasonExhausted,
	}
}

// CloseDeck stops drawing for the rest of the round and turns on the
// follow-suit rules.
func (r Round) CloseDeck(actor Seat) (Round, error) {
	if err := r.checkActor(actor); err != nil {
		return r, err
	}
	if actor != r.Leader || r.CurrentTrick != nil {
		return r, ErrNotYourTurn
	}
	if r.Closed || r.TrumpCard == nil || len(r.Stock) < 3 {
		return r, ErrCannotClose
	}
	n := r.clone()
	n.Closed = true
	n.ClosedBy = &actor
	return n, nil
}

// ExchangeTrumpNine swaps the leader's nine of trumps for the trump card.
func (r Round) ExchangeTrumpNine(actor Seat) (Round, error) {
	if err := r.checkActor(actor); err != nil {
		return r, err
	}
	if actor != r.Leader || r.CurrentTrick != nil {
		return r, ErrNotYourTurn
	}
	nine := Card{Suit: r.TrumpSuit, Rank: Nine}
	if r.TrumpCard == nil || len(r.Stock) < 3 || !containsCard(r.Hands[actor], nine) {
		return r, ErrCannotExchange
	}
	n := r.clone()
	n.Hands[actor] = append(removeCard(n.Hands[actor], nine), *r.TrumpCard)
	n.TrumpCard = &nine
	return n, nil
}

// Declare66 ends the round on actor's claim. A claim below 66 hands the
// opponent the maximum award.
func (r Round) Declare66(actor Seat) (Round, error) {
	if err := r.checkActor(actor); err != nil {
		return r, err
	}
	if !r.CanDeclare(actor) {
		return r, ErrDeclareWindow
	}
	n := r.clone()
	n.DeclareWindow = nil
	if r.Scores[actor] >= WinThreshold {
		n.Result = &RoundResult{Winner: actor, GamePoints: GamePoints(r.Scores[actor.Other()]), Reason: ReasonDeclared66}
	} else {
		n.Result = &RoundResult{Winner: actor.Other(), GamePoints: 3, Reason: ReasonFalseDeclaration}
	}
	return n, nil
}

// CloseDeclareWindow ends any open declare-66 window.
func (r Round) CloseDeclareWindow() Round {
	if r.DeclareWindow == nil {
		return r
	}
	n := r.clone()
	n.DeclareWindow = nil
	return n
}

// Forfeit ends the round in favour of winner without game points.
func (r Round) Forfeit(winner Seat) (Round, error) {
	if err := r.checkActor(winner); err != nil {
		return r, err
	}
	n := r.clone()
	n.DeclareWindow = nil
	n.Result = &RoundResult{Winner: winner, GamePoints: 0, Reason: ReasonForfeit}
	return n, nil
}
