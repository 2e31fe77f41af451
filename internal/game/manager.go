package game

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/kiliankoe/santase/internal/santase"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotHost         = errors.New("not host")
	ErrRoomFull        = errors.New("room is full")
	ErrInvalidRole     = errors.New("invalid role")
	ErrNotStarted      = errors.New("match has not started")
	ErrMatchFinished   = errors.New("match is finished")
	ErrRoundInProgress = errors.New("round still in progress")
)

const (
	codeLength   = 5
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ023456789"
)

// Manager is the in-memory room registry. Every session operation looks the
// room up by code, so callbacks never act on a room that was replaced or
// deleted in the meantime.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	bc    Broadcaster

	opts   Options
	clock  clock.Clock
	tokens atomic.Uint64
}

func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.DisconnectGrace <= 0 {
		opts.DisconnectGrace = 30 * time.Second
	}
	if opts.RoomTTL <= 0 {
		opts.RoomTTL = 2 * time.Hour
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 5 * time.Minute
	}
	return &Manager{rooms: make(map[string]*Room), opts: opts, clock: opts.Clock}
}

func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bc = b
}

func (m *Manager) broadcaster() Broadcaster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bc
}

// NormalizeCode folds a human-typed room code onto the code alphabet.
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'O':
			return '0'
		case 'I', '1':
			return 'L'
		case ' ', '-', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(code)))
}

func (m *Manager) CreateRoom() (code string, hostSecret string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = randomCode(codeLength)
	for m.rooms[code] != nil {
		code = randomCode(codeLength)
	}
	hostSecret = uuid.NewString()
	now := m.clock.Now()
	m.rooms[code] = &Room{
		Code:         code,
		HostSecret:   hostSecret,
		HostSeat:     santase.RandomSeat(),
		CreatedAt:    now.UTC(),
		lastActivity: now,
	}
	log.Info().Str("code", code).Msg("room created")
	return code, hostSecret, nil
}

func (m *Manager) Get(code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := m.rooms[NormalizeCode(code)]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// List summarises every room ordered by code.
func (m *Manager) List() []Summary {
	rooms := m.all()
	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		if !r.closed {
			out = append(out, r.summary())
		}
		r.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Summary describes a single room.
func (m *Manager) Summary(code string) (Summary, error) {
	r, err := m.Get(code)
	if err != nil {
		return Summary{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Summary{}, ErrRoomNotFound
	}
	return r.summary(), nil
}

func (m *Manager) all() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func (m *Manager) remove(code string, room *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.rooms[code]; ok && current == room {
		delete(m.rooms, code)
	}
}

// closeRoom tears a room down. Callers hold r.mu.
func (m *Manager) closeRoom(r *Room) {
	r.closed = true
	r.stopTimers()
}

func (m *Manager) notifyClosed(code, reason string) {
	if bc := m.broadcaster(); bc != nil {
		bc.RoomClosed(code, reason)
	}
}

// DeleteRoom removes a room on behalf of its host.
func (m *Manager) DeleteRoom(code, hostSecret string) error {
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if hostSecret != r.HostSecret {
		r.mu.Unlock()
		return ErrNotHost
	}
	m.closeRoom(r)
	r.mu.Unlock()

	m.remove(r.Code, r)
	log.Info().Str("code", r.Code).Msg("room deleted")
	m.notifyClosed(r.Code, "deleted")
	return nil
}

// Sweep deletes rooms idle for longer than the configured TTL.
func (m *Manager) Sweep(now time.Time) int {
	removed := 0
	for _, r := range m.all() {
		r.mu.Lock()
		idle := !r.closed && now.Sub(r.lastActivity) >= m.opts.RoomTTL
		if idle {
			m.closeRoom(r)
		}
		r.mu.Unlock()
		if !idle {
			continue
		}
		m.remove(r.Code, r)
		m.notifyClosed(r.Code, "expired")
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept idle rooms")
	}
	return removed
}

// Run sweeps idle rooms until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	t := m.clock.Ticker(m.opts.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep(m.clock.Now())
		}
	}
}

// Join authorises a connection and registers it. A matching host secret
// joins as host; an empty secret joins as guest.
func (m *Manager) Join(code, hostSecret string) (Role, error) {
	r, err := m.Get(code)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrRoomNotFound
	}
	role := RoleGuest
	if hostSecret != "" {
		if hostSecret != r.HostSecret {
			r.mu.Unlock()
			return "", ErrNotHost
		}
		role = RoleHost
	} else if r.role(RoleGuest).connected() {
		r.mu.Unlock()
		return "", ErrRoomFull
	}
	m.connectLocked(r, role)
	outs := r.snapshots()
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
	return role, nil
}

// Connect registers another transport connection for role.
func (m *Manager) Connect(code string, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	m.connectLocked(r, role)
	outs := r.snapshots()
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
	return nil
}

func (m *Manager) connectLocked(r *Room, role Role) {
	rs := r.role(role)
	rs.conns++
	// only this role's own timer; the peer may still be running out its grace
	rs.disconnect.stop()
	r.lastActivity = m.clock.Now()

	if role == RoleGuest && !r.started {
		match, err := santase.NewMatch()
		if err != nil {
			log.Panic().Err(err).Str("code", r.Code).Msg("deal first round")
		}
		r.match = match
		r.started = true
		log.Info().Str("code", r.Code).Int("dealer", int(match.Dealer)).Msg("match started")
	}
}

// Disconnect drops one transport connection for role. When the role has no
// connection left a grace timer is armed.
func (m *Manager) Disconnect(code string, role Role) {
	r, err := m.Get(code)
	if err != nil || !role.Valid() {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	rs := r.role(role)
	if rs.conns > 0 {
		rs.conns--
	}
	if rs.connected() {
		r.mu.Unlock()
		return
	}
	r.lastActivity = m.clock.Now()

	if role == RoleHost && !r.started {
		m.closeRoom(r)
		r.mu.Unlock()
		m.remove(r.Code, r)
		log.Info().Str("code", r.Code).Msg("host left before a guest joined")
		m.notifyClosed(r.Code, "host_left")
		return
	}

	if !r.finished() && !rs.disconnect.pending() {
		token := m.tokens.Add(1)
		rs.disconnect.token = token
		rs.disconnect.timer = m.clock.AfterFunc(m.opts.DisconnectGrace, func() {
			m.disconnectExpired(code, role, token)
		})
		log.Info().Str("code", r.Code).Str("role", string(role)).Dur("grace", m.opts.DisconnectGrace).Msg("disconnect grace started")
	}
	outs := r.snapshots()
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
}

func (m *Manager) disconnectExpired(code string, role Role, token uint64) {
	r, err := m.Get(code)
	if err != nil {
		log.Debug().Str("code", code).Msg("grace expired for a deleted room")
		return
	}
	r.mu.Lock()
	rs := r.role(role)
	if rs.disconnect.token != token {
		r.mu.Unlock()
		return
	}
	rs.disconnect.timer = nil
	rs.disconnect.token = 0
	if r.closed || rs.connected() || r.finished() {
		r.mu.Unlock()
		return
	}

	if r.role(role.Other()).connected() {
		m.forfeitLocked(r, role.Other())
		log.Info().Str("code", r.Code).Str("winner", string(role.Other())).Msg("match forfeited after disconnect")
	} else {
		r.draw = true
		r.clearReady()
		r.declareTimer.stop()
		log.Info().Str("code", r.Code).Msg("both players gone, match drawn")
	}
	outs := r.snapshots()
	rec := m.takeExport(r)
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
	m.export(rec)
}

// Forfeit awards the match to winner. It reports false when the match was
// already decided or never started.
func (m *Manager) Forfeit(code string, winner Role) bool {
	r, err := m.Get(code)
	if err != nil || !winner.Valid() {
		return false
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	ok := m.forfeitLocked(r, winner)
	outs := r.snapshots()
	rec := m.takeExport(r)
	r.mu.Unlock()

	if ok {
		m.dispatch(r.Code, outs)
		m.export(rec)
	}
	return ok
}

func (m *Manager) forfeitLocked(r *Room, winner Role) bool {
	if !r.started || r.finished() {
		return false
	}
	next, ok := r.match.Forfeit(r.seat(winner))
	if !ok {
		return false
	}
	r.match = next
	r.forfeit = true
	r.clearReady()
	r.declareTimer.stop()
	r.lastActivity = m.clock.Now()
	return true
}

type matchOp func(match santase.Match, seat santase.Seat) (santase.Match, error)

func (m *Manager) act(code string, role Role, op matchOp) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	r.mu.Lock()
	switch {
	case r.closed:
		r.mu.Unlock()
		return ErrRoomNotFound
	case !r.started:
		r.mu.Unlock()
		return ErrNotStarted
	case r.finished():
		r.mu.Unlock()
		return ErrMatchFinished
	}
	next, err := op(r.match, r.seat(role))
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.match = next
	r.lastActivity = m.clock.Now()
	m.syncDeclareTimer(r)
	outs := r.snapshots()
	rec := m.takeExport(r)
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
	m.export(rec)
	return nil
}

// Play leads or follows with card. marriage declares a marriage on a lead.
func (m *Manager) Play(code string, role Role, card santase.Card, marriage *santase.Suit) error {
	return m.act(code, role, func(match santase.Match, seat santase.Seat) (santase.Match, error) {
		return match.Play(seat, card, marriage)
	})
}

func (m *Manager) CloseDeck(code string, role Role) error {
	return m.act(code, role, func(match santase.Match, seat santase.Seat) (santase.Match, error) {
		return match.CloseDeck(seat)
	})
}

func (m *Manager) ExchangeTrumpNine(code string, role Role) error {
	return m.act(code, role, func(match santase.Match, seat santase.Seat) (santase.Match, error) {
		return match.ExchangeTrumpNine(seat)
	})
}

func (m *Manager) Declare66(code string, role Role) error {
	return m.act(code, role, func(match santase.Match, seat santase.Seat) (santase.Match, error) {
		return match.Declare66(seat)
	})
}

// Ready marks role as ready for the next round. Once both roles are ready
// the finished round is folded and the next one is dealt.
func (m *Manager) Ready(code string, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	r.mu.Lock()
	switch {
	case r.closed:
		r.mu.Unlock()
		return ErrRoomNotFound
	case !r.started:
		r.mu.Unlock()
		return ErrNotStarted
	case r.finished():
		r.mu.Unlock()
		return ErrMatchFinished
	case !r.match.Round.Over():
		r.mu.Unlock()
		return ErrRoundInProgress
	}
	r.role(role).ready = true
	r.lastActivity = m.clock.Now()
	if r.roles[0].ready && r.roles[1].ready {
		next, err := r.match.StartNewRound(r.match.Round.Result.Winner)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		r.match = next
		r.clearReady()
		m.syncDeclareTimer(r)
		log.Info().Str("code", r.Code).Int("round", next.RoundNumber).Msg("next round dealt")
	}
	outs := r.snapshots()
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
	return nil
}

// State returns the current projection of the room for role.
func (m *Manager) State(code string, role Role) (State, error) {
	if !role.Valid() {
		return State{}, ErrInvalidRole
	}
	r, err := m.Get(code)
	if err != nil {
		return State{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return State{}, ErrRoomNotFound
	}
	return r.stateFor(role), nil
}

// syncDeclareTimer arms the declare-66 timeout whenever a new window opens.
// Round operations allocate a fresh window pointer each time they open one,
// so an unchanged pointer means the same window. Callers hold r.mu.
func (m *Manager) syncDeclareTimer(r *Room) {
	if m.opts.DeclareWindow <= 0 {
		return
	}
	w := r.match.Round.DeclareWindow
	if w == nil || r.finished() {
		r.declareTimer.stop()
		r.declareFor = nil
		return
	}
	if w == r.declareFor && r.declareTimer.pending() {
		return
	}
	r.declareTimer.stop()
	r.declareFor = w
	token := m.tokens.Add(1)
	code := r.Code
	r.declareTimer.token = token
	r.declareTimer.timer = m.clock.AfterFunc(m.opts.DeclareWindow, func() {
		m.declareExpired(code, token)
	})
}

func (m *Manager) declareExpired(code string, token uint64) {
	r, err := m.Get(code)
	if err != nil {
		return
	}
	r.mu.Lock()
	if r.declareTimer.token != token {
		r.mu.Unlock()
		return
	}
	r.declareTimer.timer = nil
	r.declareTimer.token = 0
	r.declareFor = nil
	if r.closed || r.finished() || r.match.Round.DeclareWindow == nil {
		r.mu.Unlock()
		return
	}
	r.match = r.match.CloseDeclareWindow()
	outs := r.snapshots()
	r.mu.Unlock()

	m.dispatch(r.Code, outs)
}

// dispatch delivers each state independently; a failing delivery does not
// stop the others.
func (m *Manager) dispatch(code string, outs []outgoing) {
	bc := m.broadcaster()
	if bc == nil {
		return
	}
	for _, o := range outs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Str("code", code).Str("role", string(o.role)).Interface("panic", rec).Msg("broadcast failed")
				}
			}()
			bc.Broadcast(code, o.role, o.state)
		}()
	}
}

func randomCode(n int) string {
	letters := []rune(codeAlphabet)
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
