package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ishaan2692/matchify/internal/session"
)

// SessionJanitor evicts idle sessions and purges their stored documents so
// nothing a visitor uploaded outlives the session.
type SessionJanitor struct {
	sessions *session.Manager
	docs     DocumentService
	interval time.Duration
	maxIdle  time.Duration
	loc      *time.Location
}

// NewSessionJanitor constructs a janitor that sweeps every interval and
// evicts sessions idle longer than maxIdle.
func NewSessionJanitor(sessions *session.Manager, docs DocumentService, interval, maxIdle time.Duration, loc *time.Location) *SessionJanitor {
	return &SessionJanitor{sessions: sessions, docs: docs, interval: interval, maxIdle: maxIdle, loc: loc}
}

// Run sweeps on every tick until ctx is done.
func (j *SessionJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep purges every expired session and reports how many were removed. A
// session whose purge fails is kept so the next sweep can retry it.
func (j *SessionJanitor) Sweep(ctx context.Context) int {
	removed := 0
	for _, s := range j.sessions.Expired(j.maxIdle) {
		if err := j.docs.PurgeSession(ctx, s.ID.String()); err != nil {
			j.logJSON(map[string]any{
				"component":     "janitor",
				"event":         "session_purge_failed",
				"status":        "error",
				"session_id":    s.ID.String(),
				"error_message": err.Error(),
			})
			continue
		}
		j.sessions.Remove(s.ID)
		removed++
	}
	if removed > 0 {
		j.logJSON(map[string]any{
			"component": "janitor",
			"event":     "sessions_evicted",
			"status":    "success",
			"count":     removed,
		})
	}
	return removed
}

func (j *SessionJanitor) logJSON(data map[string]any) {
	data["ts"] = time.Now().In(j.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal janitor log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
