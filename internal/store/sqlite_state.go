package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"montage-cli/internal/model"
)

// LoadSQLite reads the whole project state. An empty database yields a fresh
// DB rather than an error.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite writes the whole project state in one transaction. Replace-all
// strategy: timelines are small enough that incremental writes are not worth
// the bookkeeping.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	metas := map[string]string{
		"version":      fmt.Sprintf("%d", st.Version),
		"current_time": fmt.Sprintf("%d", st.CurrentTime),
		"zoom":         strconv.FormatFloat(st.Zoom, 'g', -1, 64),
	}
	for k, v := range metas {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, t := range []string{"tracks", "clips", "keyframes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	for _, t := range st.Tracks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tracks(id, order_index, hidden, locked, muted, created_at_unixms)
			 VALUES(?, ?, ?, ?, ?, ?)`,
			t.ID, t.OrderIndex, boolInt(t.Hidden), boolInt(t.Locked), boolInt(t.Muted),
			t.CreatedAt.UnixMilli()); err != nil {
			return err
		}
	}

	for _, c := range st.Clips {
		meta := "{}"
		if len(c.Metadata) > 0 {
			b, err := json.Marshal(c.Metadata)
			if err != nil {
				return err
			}
			meta = string(b)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clips(id, track_id, type, start_ms, duration_ms, source_start_ms,
			 origin_duration_ms, speed, volume, muted, fade_in_ms, fade_out_ms, label,
			 parent_clip_id, metadata_json, created_at_unixms, updated_at_unixms)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.TrackID, string(c.Type), c.Start, c.Duration, c.SourceStart,
			c.OriginDuration, c.Speed, c.Volume, boolInt(c.Muted), c.FadeIn, c.FadeOut,
			c.Label, c.ParentClipID, meta,
			c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli()); err != nil {
			return err
		}
	}

	for _, k := range st.Keyframes {
		vb, err := json.Marshal(k.Value)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keyframes(id, clip_id, property, offset, value_json, easing)
			 VALUES(?, ?, ?, ?, ?, ?)`,
			k.ID, k.ClipID, string(k.Property), k.Offset, string(vb), string(k.Easing)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	st := NewDB()

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM state_meta`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, err
		}
		switch k {
		case "version":
			if n, err := strconv.Atoi(v); err == nil {
				st.Version = n
			}
		case "current_time":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
				st.CurrentTime = n
			}
		case "zoom":
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				st.Zoom = f
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, order_index, hidden, locked, muted, created_at_unixms FROM tracks ORDER BY order_index`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t model.Track
		var hidden, locked, muted int
		var created int64
		if err := rows.Scan(&t.ID, &t.OrderIndex, &hidden, &locked, &muted, &created); err != nil {
			rows.Close()
			return nil, err
		}
		t.Hidden, t.Locked, t.Muted = hidden != 0, locked != 0, muted != 0
		t.CreatedAt = time.UnixMilli(created).UTC()
		st.Tracks = append(st.Tracks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, track_id, type, start_ms, duration_ms, source_start_ms, origin_duration_ms,
		 speed, volume, muted, fade_in_ms, fade_out_ms, label, parent_clip_id, metadata_json,
		 created_at_unixms, updated_at_unixms FROM clips ORDER BY track_id, start_ms`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c model.Clip
		var typ, meta string
		var muted int
		var created, updated int64
		if err := rows.Scan(&c.ID, &c.TrackID, &typ, &c.Start, &c.Duration, &c.SourceStart,
			&c.OriginDuration, &c.Speed, &c.Volume, &muted, &c.FadeIn, &c.FadeOut,
			&c.Label, &c.ParentClipID, &meta, &created, &updated); err != nil {
			rows.Close()
			return nil, err
		}
		c.Type = model.ClipType(typ)
		c.Muted = muted != 0
		if strings.TrimSpace(meta) != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
				rows.Close()
				return nil, err
			}
		}
		c.CreatedAt = time.UnixMilli(created).UTC()
		c.UpdatedAt = time.UnixMilli(updated).UTC()
		st.Clips = append(st.Clips, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT id, clip_id, property, offset, value_json, easing FROM keyframes
		 ORDER BY clip_id, property, offset`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k model.Keyframe
		var prop, valueJSON, easing string
		if err := rows.Scan(&k.ID, &k.ClipID, &prop, &k.Offset, &valueJSON, &easing); err != nil {
			rows.Close()
			return nil, err
		}
		k.Property = model.KeyframeProperty(prop)
		k.Easing = model.Easing(easing)
		if err := json.Unmarshal([]byte(valueJSON), &k.Value); err != nil {
			rows.Close()
			return nil, err
		}
		st.Keyframes = append(st.Keyframes, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return st, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
