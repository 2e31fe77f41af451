package ws

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/santase/internal/game"
	"github.com/kiliankoe/santase/internal/santase"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	Code string
	Role game.Role
}

type Server struct {
	RM *game.Manager

	mu      sync.RWMutex
	members map[string]map[string]socketio.Conn // roomCode -> socketID -> Conn
}

func New(rm *game.Manager) *Server {
	srv := &Server{RM: rm, members: make(map[string]map[string]socketio.Conn)}
	rm.SetBroadcaster(srv)
	return srv
}

type cardPayload struct {
	Suit string `json:"suit"`
	Rank any    `json:"rank"`
}

// parseCard validates a loosely typed card literal.
func parseCard(p cardPayload) (santase.Card, error) {
	if p.Rank == nil {
		return santase.Card{}, santase.ErrInvalidCard
	}
	return santase.ParseCard(p.Suit, fmt.Sprint(p.Rank))
}

func parseMarriage(s string) (*santase.Suit, error) {
	if s == "" {
		return nil, nil
	}
	suit, err := santase.ParseSuit(s)
	if err != nil {
		return nil, err
	}
	return &suit, nil
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// room:create
	io.OnEvent("/", "room:create", func(s socketio.Conn) map[string]any {
		code, hostSecret, _ := srv.RM.CreateRoom()
		if resp := srv.attach(s, code, hostSecret); resp != nil {
			return resp
		}
		log.Info().Str("sid", s.ID()).Str("code", code).Msg("room:create")
		return map[string]any{"code": code, "hostSecret": hostSecret, "role": game.RoleHost}
	})

	// room:join (also used to resume after a reconnect)
	io.OnEvent("/", "room:join", func(s socketio.Conn, payload struct {
		Code       string `json:"code"`
		HostSecret string `json:"hostSecret"`
	}) map[string]any {
		code := game.NormalizeCode(payload.Code)
		if resp := srv.attach(s, code, payload.HostSecret); resp != nil {
			return resp
		}
		ctx := s.Context().(*ConnCtx)
		log.Info().Str("sid", s.ID()).Str("code", code).Str("role", string(ctx.Role)).Msg("room:join")
		return map[string]any{"code": code, "role": ctx.Role}
	})

	// game:play
	io.OnEvent("/", "game:play", func(s socketio.Conn, payload struct {
		Card     cardPayload `json:"card"`
		Marriage string      `json:"marriage"`
	}) map[string]any {
		ctx, ok := srv.seated(s)
		if !ok {
			return srv.err(s, game.ErrRoomNotFound)
		}
		card, err := parseCard(payload.Card)
		if err != nil {
			return srv.err(s, err)
		}
		marriage, err := parseMarriage(payload.Marriage)
		if err != nil {
			return srv.err(s, err)
		}
		if err := srv.RM.Play(ctx.Code, ctx.Role, card, marriage); err != nil {
			return srv.err(s, err)
		}
		log.Debug().Str("code", ctx.Code).Str("role", string(ctx.Role)).Stringer("card", card).Msg("game:play")
		return map[string]any{"ok": true}
	})

	srv.onAction(io, "game:close", srv.RM.CloseDeck)
	srv.onAction(io, "game:exchange", srv.RM.ExchangeTrumpNine)
	srv.onAction(io, "game:declare66", srv.RM.Declare66)
	srv.onAction(io, "game:ready", srv.RM.Ready)

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
			srv.RM.Disconnect(ctx.Code, ctx.Role)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) onAction(io *socketio.Server, event string, action func(code string, role game.Role) error) {
	io.OnEvent("/", event, func(s socketio.Conn) map[string]any {
		ctx, ok := srv.seated(s)
		if !ok {
			return srv.err(s, game.ErrRoomNotFound)
		}
		if err := action(ctx.Code, ctx.Role); err != nil {
			return srv.err(s, err)
		}
		log.Info().Str("code", ctx.Code).Str("role", string(ctx.Role)).Msg(event)
		return map[string]any{"ok": true}
	})
}

// attach joins s to a room and sends it the current state. It returns an
// error response when the join was refused. A previous seat is released only
// after the new one is held, so rejoining the same room never empties it.
func (srv *Server) attach(s socketio.Conn, code, hostSecret string) map[string]any {
	prev, _ := s.Context().(*ConnCtx)
	if prev != nil && prev.Code == code && prev.Role == game.RoleGuest && hostSecret == "" {
		// already the guest here; a second guest join would count as full
		srv.sendState(s, code, prev.Role)
		return nil
	}
	role, err := srv.RM.Join(code, hostSecret)
	if err != nil {
		return srv.err(s, err)
	}
	if prev != nil && prev.Code != "" {
		if prev.Code != code {
			srv.removeMember(prev.Code, s)
			s.Leave(prev.Code)
		}
		srv.RM.Disconnect(prev.Code, prev.Role)
	}
	s.SetContext(&ConnCtx{Code: code, Role: role})
	s.Join(code)
	srv.addMember(code, s)
	srv.sendState(s, code, role)
	return nil
}

func (srv *Server) sendState(s socketio.Conn, code string, role game.Role) {
	if st, err := srv.RM.State(code, role); err == nil {
		s.Emit("game:state", st)
	}
}

func (srv *Server) seated(s socketio.Conn) (*ConnCtx, bool) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Code == "" || !ctx.Role.Valid() {
		return nil, false
	}
	return ctx, true
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) conns(code string) []socketio.Conn {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	out := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		out = append(out, c)
	}
	return out
}

// Broadcast sends state to every connection seated as role.
func (srv *Server) Broadcast(code string, role game.Role, state game.State) {
	for _, c := range srv.conns(code) {
		if ctx, ok := c.Context().(*ConnCtx); ok && ctx.Role == role {
			c.Emit("game:state", state)
		}
	}
}

// RoomClosed tells every connection the room is gone and forgets them.
func (srv *Server) RoomClosed(code string, reason string) {
	for _, c := range srv.conns(code) {
		c.Emit("room:closed", map[string]any{"code": code, "reason": reason})
		c.SetContext(&ConnCtx{})
		c.Leave(code)
	}
	srv.mu.Lock()
	delete(srv.members, code)
	srv.mu.Unlock()
}

func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	code, message := errorCode(err)
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message, "code": code}
}

func errorCode(err error) (string, string) {
	var rule *santase.RuleError
	if errors.As(err, &rule) {
		return rule.Code, rule.Message
	}
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return "room_not_found", "Room not found"
	case errors.Is(err, game.ErrNotHost):
		return "unauthorized", "Invalid host secret"
	case errors.Is(err, game.ErrRoomFull):
		return "room_full", "Room is full"
	case errors.Is(err, game.ErrNotStarted):
		return "not_started", "Waiting for an opponent"
	case errors.Is(err, game.ErrMatchFinished):
		return "match_finished", "Match is finished"
	case errors.Is(err, game.ErrRoundInProgress):
		return "round_in_progress", "Round is still in progress"
	}
	return "bad_request", err.Error()
}
