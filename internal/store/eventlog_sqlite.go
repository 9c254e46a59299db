package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"montage-cli/internal/model"
)

// Every committed mutation is reported exactly once through AppendEvent; the
// sync service on the other side owns batching and storage semantics. An
// in-flight gesture preview is never appended.

var appendEventCount atomic.Uint64

// AppendEventCount returns the number of events appended by this process.
// Long-lived surfaces (TUI, web) compare it across turns to detect change.
func AppendEventCount() uint64 { return appendEventCount.Load() }

func (s Store) AppendEvent(typ, entityID string, payload any) error {
	return s.appendEventSQLite(context.Background(), typ, entityID, payload)
}

func (s Store) appendEventSQLite(ctx context.Context, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pj := []byte("null")
	if payload != nil {
		pj, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		NewID("evt"), time.Now().UnixMilli(), strings.TrimSpace(typ), strings.TrimSpace(entityID), string(pj))
	if err != nil {
		return err
	}
	appendEventCount.Add(1)
	return nil
}

// ReadEvents returns events oldest-first. limit <= 0 returns all.
func ReadEvents(dir string, limit int) ([]model.Event, error) {
	return readEvents(dir, "", limit, false)
}

// ReadEventsTail returns the last N events, oldest-first within the window.
func ReadEventsTail(dir string, limit int) ([]model.Event, error) {
	return readEvents(dir, "", limit, true)
}

// ReadEventsForEntity returns events for one entity id, oldest-first.
func ReadEventsForEntity(dir, entityID string, limit int) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return readEvents(dir, entityID, limit, true)
}

func readEvents(dir, entityID string, limit int, tail bool) ([]model.Event, error) {
	ctx := context.Background()
	s := Store{Dir: dir}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events`
	var args []any
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY seq`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		var ts int64
		var pj string
		if err := rows.Scan(&ev.ID, &ts, &ev.Type, &ev.EntityID, &pj); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ts).UTC()
		if strings.TrimSpace(pj) != "" {
			var payload any
			if err := json.Unmarshal([]byte(pj), &payload); err != nil {
				return nil, err
			}
			ev.Payload = payload
		}
		out = append(out, ev)
		if !tail && limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if tail && limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
