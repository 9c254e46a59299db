// Package cleanup applies editing plans produced by an upstream analysis
// pass, for example an AI wizard that flags filler takes. Plans only speak in
// clip ids and intents; every change goes through the regular mutation
// surface so layout invariants hold without special cases here.
package cleanup

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"montage-cli/internal/mutate"
	"montage-cli/internal/store"
)

type Action string

const (
	ActionKeep   Action = "keep"
	ActionRemove Action = "remove"
	ActionTag    Action = "tag"
)

type ClipDecision struct {
	ID     string   `yaml:"id"`
	Action Action   `yaml:"action"`
	Tags   []string `yaml:"tags,omitempty"`
}

type Plan struct {
	Clips  []ClipDecision `yaml:"clips"`
	Merges [][]string     `yaml:"merges,omitempty"`
}

// Summary is what a plan actually did. Unknown clip ids are skipped, not
// errors: plans are often computed against a slightly older timeline.
type Summary struct {
	Removed []string
	Tagged  []string
	Merged  map[string][]string
	Skipped []string
}

func ParsePlan(data []byte) (Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("parse cleanup plan: %w", err)
	}
	for i, d := range p.Clips {
		switch d.Action {
		case ActionKeep, ActionRemove, ActionTag:
		default:
			return Plan{}, fmt.Errorf("cleanup plan: clip %d (%s): unknown action %q", i, d.ID, d.Action)
		}
	}
	return p, nil
}

func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read cleanup plan: %w", err)
	}
	return ParsePlan(data)
}

// Apply runs the plan: tags land in clip metadata, removals cascade and
// schedule compaction, and merge groups collapse through the adjacency
// merger. Keep decisions contribute their ids to the merge candidate set.
func Apply(db *store.DB, plan Plan) Summary {
	sum := Summary{Merged: map[string][]string{}}

	kept := make([]string, 0, len(plan.Clips))
	for _, d := range plan.Clips {
		if _, ok := db.FindClip(d.ID); !ok {
			sum.Skipped = append(sum.Skipped, d.ID)
			continue
		}
		switch d.Action {
		case ActionRemove:
			res := db.RemoveClip(d.ID)
			sum.Removed = append(sum.Removed, res.Removed...)
			for _, tid := range res.CompactTrackIDs {
				store.CompactTrack(db, tid)
			}
		case ActionTag:
			db.UpdateClip(d.ID, store.ClipPatch{
				MetadataSet: map[string]string{"tags": strings.Join(d.Tags, ",")},
			})
			sum.Tagged = append(sum.Tagged, d.ID)
			kept = append(kept, d.ID)
		case ActionKeep:
			kept = append(kept, d.ID)
		}
	}

	for _, group := range plan.Merges {
		ids := group
		if len(ids) == 0 {
			ids = kept
		}
		res := mutate.MergeAdjacentClips(db, ids)
		for keep, absorbed := range res.Merged {
			sum.Merged[keep] = append(sum.Merged[keep], absorbed...)
		}
	}

	sort.Strings(sum.Removed)
	return sum
}
