package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiliankoe/santase/internal/santase"
	"github.com/rs/zerolog/log"
)

// MatchRecord is a finished match captured under the room lock.
type MatchRecord struct {
	Code       string
	File       string
	StartedAt  time.Time
	FinishedAt time.Time
	Rounds     int
	HostScore  int
	GuestScore int
	Outcome    string
	LastRound  *santase.RoundResult
}

// takeExport returns a record the first time a finished room is seen, nil
// otherwise. Callers hold r.mu.
func (m *Manager) takeExport(r *Room) *MatchRecord {
	if m.opts.ExportFile == "" || r.exported || !r.finished() {
		return nil
	}
	r.exported = true
	rec := &MatchRecord{
		Code:       r.Code,
		File:       m.opts.ExportFile,
		StartedAt:  r.CreatedAt,
		FinishedAt: m.clock.Now().UTC(),
		Rounds:     r.match.RoundNumber,
		HostScore:  r.match.Scores[r.seat(RoleHost)],
		GuestScore: r.match.Scores[r.seat(RoleGuest)],
	}
	switch {
	case r.draw:
		rec.Outcome = "draw (both players disconnected)"
	case r.forfeit:
		rec.Outcome = fmt.Sprintf("%s wins by forfeit", *r.winner())
	default:
		rec.Outcome = fmt.Sprintf("%s wins", *r.winner())
	}
	if res := r.match.Round.Result; res != nil {
		cp := *res
		rec.LastRound = &cp
	}
	return rec
}

func (m *Manager) export(rec *MatchRecord) {
	if rec == nil {
		return
	}
	if err := ExportMatch(rec, rec.File); err != nil {
		log.Error().Err(err).Str("code", rec.Code).Msg("failed to export match result")
		return
	}
	log.Info().Str("code", rec.Code).Str("file", rec.File).Msg("exported match result")
}

// ExportMatch appends a finished match to a text file.
func ExportMatch(rec *MatchRecord, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if !fileExists {
		sb.WriteString("Santase Match Results\n")
		sb.WriteString(strings.Repeat("=", 50) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Room %s\n", rec.Code))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Created:  %s\n", rec.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", rec.FinishedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Rounds:   %d\n", rec.Rounds))
	sb.WriteString(fmt.Sprintf("Score:    host %d - guest %d\n", rec.HostScore, rec.GuestScore))
	sb.WriteString(fmt.Sprintf("Outcome:  %s\n", rec.Outcome))
	if rec.LastRound != nil {
		sb.WriteString(fmt.Sprintf("Last round: %s, %d game point(s)\n", rec.LastRound.Reason, rec.LastRound.GamePoints))
	}

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
