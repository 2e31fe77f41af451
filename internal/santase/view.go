package santase

// MatchView is a match as seen by one seat. The opponent's hand and the stock
// appear only as counts and the opponent's round score is withheld.
type MatchView struct {
	Seat              Seat            `json:"seat"`
	Hand              []Card          `json:"hand"`
	OpponentHandCount int             `json:"opponentHandCount"`
	StockCount        int             `json:"stockCount"`
	TrumpCard         *Card           `json:"trumpCard"`
	TrumpSuit         Suit            `json:"trumpSuit"`
	Closed            bool            `json:"isClosed"`
	ClosedBy          *Seat           `json:"closedBy"`
	Leader            Seat            `json:"leader"`
	CurrentTrick      *Trick          `json:"currentTrick"`
	LastTrick         *CompletedTrick `json:"lastCompletedTrick"`
	WonCounts         [2]int          `json:"wonTricks"`
	MyScore           int             `json:"myScore"`
	OpponentScore     *int            `json:"opponentScore"`
	Marriages         []Suit          `json:"declaredMarriages"`
	CanDeclare66      bool            `json:"canDeclare66"`
	YourTurn          bool            `json:"yourTurn"`
	LegalCards        []Card          `json:"legalCards"`
	Result            *RoundResult    `json:"roundResult"`
	MatchScores       [2]int          `json:"matchScores"`
	Dealer            Seat            `json:"dealer"`
	RoundNumber       int             `json:"roundNumber"`
	MatchOver         bool            `json:"matchOver"`
}

// View projects m for seat. Every call builds fresh slices so views never
// alias match state.
func (m Match) View(seat Seat) MatchView {
	r := m.Round
	opp := seat.Other()
	v := MatchView{
		Seat:              seat,
		Hand:              append([]Card{}, r.Hands[seat]...),
		OpponentHandCount: len(r.Hands[opp]),
		StockCount:        len(r.Stock),
		TrumpSuit:         r.TrumpSuit,
		Closed:            r.Closed,
		Leader:            r.Leader,
		WonCounts:         [2]int{len(r.Won[0]) / 2, len(r.Won[1]) / 2},
		MyScore:           r.Scores[seat],
		Marriages:         append([]Suit{}, r.Marriages...),
		CanDeclare66:      r.CanDeclare(seat),
		YourTurn:          r.Result == nil && r.Turn() == seat,
		LegalCards:        append([]Card{}, r.LegalCards(seat)...),
		MatchScores:       m.Scores,
		Dealer:            m.Dealer,
		RoundNumber:       m.RoundNumber,
		MatchOver:         m.IsMatchOver(),
	}
	if r.TrumpCard != nil {
		c := *r.TrumpCard
		v.TrumpCard = &c
	}
	if r.ClosedBy != nil {
		s := *r.ClosedBy
		v.ClosedBy = &s
	}
	if r.CurrentTrick != nil {
		t := *r.CurrentTrick
		v.CurrentTrick = &t
	}
	if r.LastTrick != nil {
		t := *r.LastTrick
		v.LastTrick = &t
	}
	if r.Result != nil {
		res := *r.Result
		v.Result = &res
	}
	return v
}
