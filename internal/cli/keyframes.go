package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"montage-cli/internal/keyframe"
	"montage-cli/internal/model"
)

func newKeyframesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyframes",
		Short: "Manage animation keyframes on clips",
	}

	var prop string
	lsCmd := &cobra.Command{
		Use:   "ls <clip-id>",
		Short: "List a clip's keyframes, offset-sorted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var p model.KeyframeProperty
			if prop != "" {
				parsed, err := model.ParseKeyframeProperty(prop)
				if err != nil {
					return writeErr(cmd, err)
				}
				p = parsed
			}
			ks := keyframe.ClipKeyframes(db, strings.TrimSpace(args[0]), p)
			return writeOut(cmd, app, map[string]any{"data": ks})
		},
	}
	lsCmd.Flags().StringVar(&prop, "property", "", "Filter to one property")

	var (
		addProp   string
		offset    float64
		rawValues []string
		easing    string
	)
	addCmd := &cobra.Command{
		Use:   "add <clip-id>",
		Short: "Add or merge a keyframe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParseKeyframeProperty(addProp)
			if err != nil {
				return writeErr(cmd, err)
			}
			ez, err := model.ParseEasing(easing)
			if err != nil {
				return writeErr(cmd, err)
			}
			value := make([]float64, 0, len(rawValues))
			for _, rv := range rawValues {
				f, err := strconv.ParseFloat(strings.TrimSpace(rv), 64)
				if err != nil {
					return writeErr(cmd, err)
				}
				value = append(value, f)
			}

			res := keyframe.Add(db, strings.TrimSpace(args[0]), p, offset, value, ez)
			if res.Keyframe == nil {
				return writeErr(cmd, errNotFound("keyframeable clip", args[0]))
			}
			if err := commit(s, db, "keyframe.add", res.Keyframe.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Keyframe, "meta": map[string]any{"merged": res.Merged}})
		},
	}
	addCmd.Flags().StringVar(&addProp, "property", "", "Property (position|scale|rotation|opacity)")
	addCmd.Flags().Float64Var(&offset, "offset", 0, "Normalized offset within the clip [0,1]")
	addCmd.Flags().StringSliceVar(&rawValues, "value", nil, "Value components (repeat or comma-separate)")
	addCmd.Flags().StringVar(&easing, "easing", "", "Easing (linear|ease-in|ease-out|ease-in-out)")
	_ = addCmd.MarkFlagRequired("property")

	var (
		setOffset float64
		setValues []string
		setEasing string
	)
	setCmd := &cobra.Command{
		Use:   "set <keyframe-id>",
		Short: "Edit one keyframe in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])

			var offset *float64
			if cmd.Flags().Changed("offset") {
				offset = &setOffset
			}
			var value []float64
			if cmd.Flags().Changed("value") {
				for _, rv := range setValues {
					f, err := strconv.ParseFloat(strings.TrimSpace(rv), 64)
					if err != nil {
						return writeErr(cmd, err)
					}
					value = append(value, f)
				}
			}
			var easing *model.Easing
			if cmd.Flags().Changed("easing") {
				ez, err := model.ParseEasing(setEasing)
				if err != nil {
					return writeErr(cmd, err)
				}
				easing = &ez
			}

			res := keyframe.Update(db, id, offset, value, easing)
			if res.Keyframe == nil {
				return writeErr(cmd, errNotFound("keyframe", id))
			}
			if res.Changed {
				if err := commit(s, db, "keyframe.update", id, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": res.Keyframe})
		},
	}
	setCmd.Flags().Float64Var(&setOffset, "offset", 0, "New normalized offset [0,1]")
	setCmd.Flags().StringSliceVar(&setValues, "value", nil, "New value components")
	setCmd.Flags().StringVar(&setEasing, "easing", "", "New easing")

	rmCmd := &cobra.Command{
		Use:   "rm <keyframe-id>",
		Short: "Remove one keyframe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !keyframe.Delete(db, id) {
				return writeErr(cmd, errNotFound("keyframe", id))
			}
			if err := commit(s, db, "keyframe.remove", id, nil); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": id}})
		},
	}

	var clearProp string
	clearCmd := &cobra.Command{
		Use:   "clear <clip-id>",
		Short: "Remove all keyframes for one property of a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParseKeyframeProperty(clearProp)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n := keyframe.DeleteProperty(db, id, p)
			if n > 0 {
				if err := commit(s, db, "keyframe.clear", id, map[string]any{"property": p, "removed": n}); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": n}})
		},
	}
	clearCmd.Flags().StringVar(&clearProp, "property", "", "Property to clear")
	_ = clearCmd.MarkFlagRequired("property")

	cmd.AddCommand(lsCmd)
	cmd.AddCommand(addCmd)
	cmd.AddCommand(setCmd)
	cmd.AddCommand(rmCmd)
	cmd.AddCommand(clearCmd)
	return cmd
}
