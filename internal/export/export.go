package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"montage-cli/internal/store"
)

type WriteOptions struct {
	IncludeHidden    bool
	IncludeKeyframes bool
	Overwrite        bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTimeline writes the timeline index plus one page per clip under toDir.
func WriteTimeline(db *store.DB, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	clipsDir := filepath.Join(toDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	renderOpt := RenderOptions{
		IncludeHidden:    opt.IncludeHidden,
		IncludeKeyframes: opt.IncludeKeyframes,
	}

	indexMD, err := RenderTimelineMarkdown(db, renderOpt)
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "timeline.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, t := range db.TracksOrdered() {
		if t.Hidden && !opt.IncludeHidden {
			continue
		}
		for _, c := range db.ClipsOnTrack(t.ID) {
			md, err := RenderClipMarkdown(db, c.ID, renderOpt)
			if err != nil {
				return WriteResult{}, err
			}
			p := filepath.Join(clipsDir, c.ID+".md")
			if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
				return WriteResult{}, err
			}
			written = append(written, p)
		}
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
