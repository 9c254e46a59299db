package model

import "time"

// ClipType identifies what a clip carries. Tracks are type-homogeneous:
// a track is either empty or holds clips of exactly one ClipType.
type ClipType string

const (
	ClipVideo      ClipType = "video"
	ClipAudio      ClipType = "audio"
	ClipImage      ClipType = "image"
	ClipText       ClipType = "text"
	ClipSubtitle   ClipType = "subtitle"
	ClipVoice      ClipType = "voice"
	ClipEffect     ClipType = "effect"
	ClipFilter     ClipType = "filter"
	ClipTransition ClipType = "transition"
	ClipSticker    ClipType = "sticker"
)

const (
	// MinClipDurationMs is the floor every clip duration is clamped to.
	MinClipDurationMs int64 = 100

	// DefaultImageDurationMs is the duration assigned to dropped image assets.
	DefaultImageDurationMs int64 = 3000

	// MaxFadeMs is the absolute ceiling for fadeIn/fadeOut.
	MaxFadeMs int64 = 10000

	// SnapThresholdMs is the default magnetic-alignment window.
	SnapThresholdMs int64 = 50

	// OverlapToleranceMs: overlaps at or below this are ignored by make-room.
	OverlapToleranceMs int64 = 1

	// KeyframeMinDistance is the normalized-offset window within which two
	// keyframes on the same clip+property collapse into one.
	KeyframeMinDistance float64 = 0.01
)

// Trimmable reports whether clips of this type are bounded by a source asset
// (sourceStart/originDuration are meaningful). Generated content has no
// underlying asset to trim against.
func (t ClipType) Trimmable() bool {
	switch t {
	case ClipVideo, ClipAudio, ClipVoice:
		return true
	default:
		return false
	}
}

// Fadeable reports whether fadeIn/fadeOut apply to this type.
func (t ClipType) Fadeable() bool {
	switch t {
	case ClipVideo, ClipAudio, ClipVoice:
		return true
	default:
		return false
	}
}

// Keyframeable reports whether the keyframe subsystem accepts this type.
func (t ClipType) Keyframeable() bool {
	switch t {
	case ClipVideo, ClipImage, ClipText, ClipSticker:
		return true
	default:
		return false
	}
}

// Compacted reports whether tracks of this type enforce the zero-gap,
// zero-overlap layout. Only video tracks do; every other type may overlap
// freely within its track.
func (t ClipType) Compacted() bool {
	return t == ClipVideo
}

type Track struct {
	ID string `json:"id"`

	// OrderIndex is the z-layer; higher renders in front.
	OrderIndex int `json:"orderIndex"`

	// Presentation-only flags. Geometry algorithms never consult these.
	Hidden bool `json:"hidden,omitempty"`
	Locked bool `json:"locked,omitempty"`
	Muted  bool `json:"muted,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type Clip struct {
	ID      string   `json:"id"`
	TrackID string   `json:"trackId"`
	Type    ClipType `json:"type"`

	// Timeline placement, milliseconds.
	Start    int64 `json:"start"`
	Duration int64 `json:"duration"`

	// SourceStart is the offset into the original asset that Start maps to.
	// OriginDuration bounds trimming; 0 means unbounded (non-trimmable types).
	SourceStart    int64 `json:"sourceStart,omitempty"`
	OriginDuration int64 `json:"originDuration,omitempty"`

	Speed   float64 `json:"speed,omitempty"`
	Volume  float64 `json:"volume,omitempty"`
	Muted   bool    `json:"muted,omitempty"`
	FadeIn  int64   `json:"fadeIn,omitempty"`
	FadeOut int64   `json:"fadeOut,omitempty"`

	// Label is the display name (asset filename, subtitle text, ...).
	Label string `json:"label,omitempty"`

	// ParentClipID is the lineage pointer retained after split/duplicate.
	// Deleting the parent cascades to clips carrying its id here.
	ParentClipID string `json:"parentClipId,omitempty"`

	// Metadata is an opaque bag written by external collaborators (e.g. the
	// cleanup wizard's classification tags). Geometry code never reads it.
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// End returns the exclusive end of the clip on the timeline.
func (c Clip) End() int64 { return c.Start + c.Duration }

// Contains reports whether t (ms) falls within [Start, End).
func (c Clip) Contains(t int64) bool { return t >= c.Start && t < c.End() }

// KeyframeProperty is the animated property a keyframe belongs to.
type KeyframeProperty string

const (
	PropPosition KeyframeProperty = "position"
	PropScale    KeyframeProperty = "scale"
	PropRotation KeyframeProperty = "rotation"
	PropOpacity  KeyframeProperty = "opacity"
)

// Vector reports whether values of this property are 2-component.
func (p KeyframeProperty) Vector() bool { return p == PropPosition }

type Easing string

const (
	EasingLinear  Easing = "linear"
	EasingEaseIn  Easing = "easeIn"
	EasingEaseOut Easing = "easeOut"
	EasingEaseAll Easing = "easeInOut"
)

type Keyframe struct {
	ID       string           `json:"id"`
	ClipID   string           `json:"clipId"`
	Property KeyframeProperty `json:"property"`

	// Offset is normalized to [0,1] within the clip's duration.
	Offset float64 `json:"offset"`

	// Value holds one component for scalar properties, two for vectors.
	Value  []float64 `json:"value"`
	Easing Easing    `json:"easing"`
}

// AssetDescriptor is what the asset/library service hands the core on drop.
type AssetDescriptor struct {
	ID       string   `json:"id"`
	Type     ClipType `json:"type"`
	Duration int64    `json:"duration"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	URL      string   `json:"url"`
	Name     string   `json:"name,omitempty"`
}

// Event is one committed-mutation record in the append-only log.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
