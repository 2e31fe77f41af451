package game

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/kiliankoe/santase/internal/santase"
	"github.com/rs/zerolog/log"
)

// timerSlot is a scheduled callback guarded by a token. A callback only acts
// when the slot still holds its token.
type timerSlot struct {
	timer *clock.Timer
	token uint64
}

func (ts *timerSlot) pending() bool { return ts.timer != nil }

func (ts *timerSlot) stop() {
	if ts.timer != nil {
		ts.timer.Stop()
	}
	ts.timer = nil
	ts.token = 0
}

type roleState struct {
	conns      int
	ready      bool
	disconnect timerSlot
}

func (rs *roleState) connected() bool { return rs.conns > 0 }

// Room is one two-player match. All fields behind mu.
type Room struct {
	Code       string
	HostSecret string
	HostSeat   santase.Seat
	CreatedAt  time.Time

	mu           sync.Mutex
	roles        [2]roleState
	started      bool
	forfeit      bool
	draw         bool
	closed       bool
	exported     bool
	match        santase.Match
	declareTimer timerSlot
	declareFor   *santase.Seat
	lastActivity time.Time
}

func (r *Room) seat(role Role) santase.Seat {
	if role == RoleHost {
		return r.HostSeat
	}
	return r.HostSeat.Other()
}

func (r *Room) roleOf(seat santase.Seat) Role {
	if seat == r.HostSeat {
		return RoleHost
	}
	return RoleGuest
}

func (r *Room) role(role Role) *roleState { return &r.roles[role.index()] }

// finished reports whether no further play is possible. Callers hold mu.
func (r *Room) finished() bool {
	return r.draw || (r.started && r.match.IsMatchOver())
}

func (r *Room) phase() Phase {
	switch {
	case !r.started:
		return PhaseLobby
	case r.finished():
		return PhaseMatchOver
	case r.match.Round.Over():
		return PhaseRoundOver
	default:
		return PhasePlaying
	}
}

func (r *Room) winner() *Role {
	if !r.started || r.draw {
		return nil
	}
	seat, ok, err := r.match.MatchWinner()
	if err != nil {
		log.Panic().Err(err).Str("code", r.Code).Ints("scores", r.match.Scores[:]).Msg("corrupted match score")
	}
	if !ok {
		return nil
	}
	w := r.roleOf(seat)
	return &w
}

// stateFor builds the projection for role. Callers hold mu.
func (r *Room) stateFor(role Role) State {
	st := State{
		Code:           r.Code,
		Role:           role,
		Phase:          r.phase(),
		HostConnected:  r.role(RoleHost).connected(),
		GuestConnected: r.role(RoleGuest).connected(),
		YouReady:       r.role(role).ready,
		OpponentReady:  r.role(role.Other()).ready,
		Forfeit:        r.forfeit,
		Draw:           r.draw,
		Winner:         r.winner(),
	}
	if r.started {
		v := r.match.View(r.seat(role))
		st.Match = &v
	}
	return st
}

type outgoing struct {
	role  Role
	state State
}

// snapshots computes a fresh state for every connected role. Callers hold mu.
func (r *Room) snapshots() []outgoing {
	out := make([]outgoing, 0, 2)
	for _, role := range []Role{RoleHost, RoleGuest} {
		if r.role(role).connected() {
			out = append(out, outgoing{role: role, state: r.stateFor(role)})
		}
	}
	return out
}

func (r *Room) summary() Summary {
	s := Summary{
		Code:         r.Code,
		Phase:        r.phase(),
		Connected:    [2]bool{r.role(RoleHost).connected(), r.role(RoleGuest).connected()},
		CreatedAt:    r.CreatedAt,
		LastActivity: r.lastActivity,
	}
	if r.started {
		s.Scores = [2]int{r.match.Scores[r.seat(RoleHost)], r.match.Scores[r.seat(RoleGuest)]}
	}
	return s
}

// stopTimers cancels every pending callback. Callers hold mu.
func (r *Room) stopTimers() {
	r.roles[0].disconnect.stop()
	r.roles[1].disconnect.stop()
	r.declareTimer.stop()
}

func (r *Room) clearReady() {
	r.roles[0].ready = false
	r.roles[1].ready = false
}
