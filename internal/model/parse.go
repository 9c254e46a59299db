package model

import (
	"fmt"
	"strings"
)

var clipTypes = map[string]ClipType{
	"video":      ClipVideo,
	"audio":      ClipAudio,
	"image":      ClipImage,
	"text":       ClipText,
	"subtitle":   ClipSubtitle,
	"voice":      ClipVoice,
	"effect":     ClipEffect,
	"filter":     ClipFilter,
	"transition": ClipTransition,
	"sticker":    ClipSticker,
}

func ParseClipType(s string) (ClipType, error) {
	t, ok := clipTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid clip type: %q", s)
	}
	return t, nil
}

func ParseKeyframeProperty(s string) (KeyframeProperty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position":
		return PropPosition, nil
	case "scale":
		return PropScale, nil
	case "rotation":
		return PropRotation, nil
	case "opacity":
		return PropOpacity, nil
	default:
		return "", fmt.Errorf("invalid keyframe property: %q (expected position|scale|rotation|opacity)", s)
	}
}

func ParseEasing(s string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return EasingLinear, nil
	case "easein", "ease-in":
		return EasingEaseIn, nil
	case "easeout", "ease-out":
		return EasingEaseOut, nil
	case "easeinout", "ease-in-out":
		return EasingEaseAll, nil
	default:
		return "", fmt.Errorf("invalid easing: %q", s)
	}
}
