package santase

// RuleError is a rejected action. The round it was applied to is unchanged.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleError(code, msg string) *RuleError { return &RuleError{Code: code, Message: msg} }

var (
	ErrInvalidCard      = ruleError("invalid_card", "invalid card")
	ErrInvalidDeck      = ruleError("invalid_deck", "invalid deck")
	ErrInvalidSeat      = ruleError("invalid_seat", "invalid seat")
	ErrRoundOver        = ruleError("round_over", "round already finished")
	ErrNotYourTurn      = ruleError("not_your_turn", "not your turn")
	ErrTrickInProgress  = ruleError("trick_in_progress", "a trick is in progress")
	ErrNoTrick          = ruleError("no_trick", "no card has been led")
	ErrCardNotInHand    = ruleError("card_not_in_hand", "card not in hand")
	ErrMustHead         = ruleError("illegal_follow", "must follow suit and head the trick")
	ErrInvalidMarriage  = ruleError("invalid_marriage", "invalid marriage")
	ErrMarriageDeclared = ruleError("marriage_declared", "marriage already declared in this suit")
	ErrDeclareWindow    = ruleError("declare_window_closed", "cannot declare 66 now")
	ErrCannotClose      = ruleError("cannot_close", "deck cannot be closed now")
	ErrCannotExchange   = ruleError("cannot_exchange", "trump nine cannot be exchanged now")
	ErrRoundNotOver     = ruleError("round_not_over", "round is not over")
	ErrWrongWinner      = ruleError("wrong_winner", "asserted winner does not match the round result")
	ErrMatchOver        = ruleError("match_over", "match is over")
)

// InvariantError reports corrupted state. It is never a valid outcome.
type InvariantError string

func (e InvariantError) Error() string { return "santase: invariant violated: " + string(e) }

// ErrTiedMatch is returned when both match scores reach the target with a tie.
var ErrTiedMatch = InvariantError("tied match score at or above target")
