package game

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/kiliankoe/santase/internal/santase"
)

// Role is a participant's position in a room.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Other returns the opposing role.
func (r Role) Other() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

// Valid reports whether r is host or guest.
func (r Role) Valid() bool { return r == RoleHost || r == RoleGuest }

func (r Role) index() int {
	if r == RoleHost {
		return 0
	}
	return 1
}

type Phase string

const (
	PhaseLobby     Phase = "Lobby"
	PhasePlaying   Phase = "Playing"
	PhaseRoundOver Phase = "RoundOver"
	PhaseMatchOver Phase = "MatchOver"
)

// Options configures a Manager.
type Options struct {
	// DisconnectGrace is how long a disconnected role may stay away before
	// the match is forfeited or drawn.
	DisconnectGrace time.Duration
	// DeclareWindow closes a declare-66 window after this long. Zero leaves
	// the window open until the next lead.
	DeclareWindow time.Duration
	// RoomTTL is the idle time after which the sweeper deletes a room.
	RoomTTL       time.Duration
	SweepInterval time.Duration
	// ExportFile receives a summary of each finished match when set.
	ExportFile string
	Clock      clock.Clock
}

// Broadcaster pushes state to connected participants.
type Broadcaster interface {
	Broadcast(code string, role Role, state State)
	RoomClosed(code string, reason string)
}

// State is a room as seen by one role.
type State struct {
	Code           string             `json:"sessionCode"`
	Role           Role               `json:"role"`
	Phase          Phase              `json:"phase"`
	HostConnected  bool               `json:"hostConnected"`
	GuestConnected bool               `json:"guestConnected"`
	YouReady       bool               `json:"youReady"`
	OpponentReady  bool               `json:"opponentReady"`
	Forfeit        bool               `json:"forfeit"`
	Draw           bool               `json:"draw"`
	Winner         *Role              `json:"winner,omitempty"`
	Match          *santase.MatchView `json:"match,omitempty"`
}

// Summary describes a room for listings.
type Summary struct {
	Code         string    `json:"code"`
	Phase        Phase     `json:"phase"`
	Scores       [2]int    `json:"scores"`
	Connected    [2]bool   `json:"connected"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}
