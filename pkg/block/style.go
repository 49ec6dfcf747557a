package block

import (
	"slices"

	"github.com/gosimple/slug"

	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

// Style is the generic style envelope every block kind carries.
type Style struct {
	PresetID   string      `json:"presetId,omitempty"`
	Layout     *Layout     `json:"layout,omitempty"`
	Background *Background `json:"background,omitempty"`
	Typography *Typography `json:"typography,omitempty"`
	Effects    *Effects    `json:"effects,omitempty"`
	Visibility *Visibility `json:"visibility,omitempty"`
}

// Layout controls outer spacing and the inner container.
type Layout struct {
	Padding         *Padding                 `json:"padding,omitempty"`
	MaxWidth        responsive.Value[string] `json:"maxWidth,omitempty"`
	HorizontalAlign responsive.Value[string] `json:"horizontalAlign,omitempty"`
}

// Padding holds spacing tokens for the section's vertical padding.
type Padding struct {
	Top    responsive.Value[string] `json:"top,omitempty"`
	Bottom responsive.Value[string] `json:"bottom,omitempty"`
}

// BackgroundVariant selects which background payload applies.
type BackgroundVariant string

// Background variants.
const (
	BackgroundNone     BackgroundVariant = "none"
	BackgroundSolid    BackgroundVariant = "solid"
	BackgroundGradient BackgroundVariant = "gradient"
	BackgroundImage    BackgroundVariant = "image"
	BackgroundVideo    BackgroundVariant = "video"
)

// Background describes the section background. Only the payload matching
// Variant is consulted.
type Background struct {
	Variant        BackgroundVariant         `json:"variant,omitempty"`
	Color          responsive.Value[string]  `json:"color,omitempty"`
	Gradient       *Gradient                 `json:"gradient,omitempty"`
	Image          responsive.Value[Media]   `json:"image,omitempty"`
	Video          responsive.Value[Video]   `json:"video,omitempty"`
	OverlayOpacity responsive.Value[float64] `json:"overlayOpacity,omitempty"`
}

// Gradient is either a raw CSS value or a declarative description.
type Gradient struct {
	From  string         `json:"from,omitempty"`
	Via   string         `json:"via,omitempty"`
	To    string         `json:"to,omitempty"`
	Angle *float64       `json:"angle,omitempty"`
	Stops []GradientStop `json:"stops,omitempty"`
	CSS   string         `json:"css,omitempty"`
}

// GradientStop is a color at a percentage position.
type GradientStop struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// Media is an image asset reference.
type Media struct {
	Src        string      `json:"src"`
	Alt        string      `json:"alt,omitempty"`
	FocalPoint *FocalPoint `json:"focalPoint,omitempty"`
	Fit        string      `json:"fit,omitempty"`
}

// FocalPoint positions a background image, in percent.
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Video is a background video asset. Nil flags default to true.
type Video struct {
	Src      string `json:"src"`
	Autoplay *bool  `json:"autoplay,omitempty"`
	Loop     *bool  `json:"loop,omitempty"`
	Muted    *bool  `json:"muted,omitempty"`
	Poster   string `json:"poster,omitempty"`
}

// Typography holds text tokens.
type Typography struct {
	Scale              responsive.Value[string] `json:"scale,omitempty"`
	Weight             responsive.Value[string] `json:"weight,omitempty"`
	LetterSpacing      responsive.Value[string] `json:"letterSpacing,omitempty"`
	TextColor          responsive.Value[string] `json:"textColor,omitempty"`
	HeadingAccentColor string                   `json:"headingAccentColor,omitempty"`
}

// Effects groups motion settings.
type Effects struct {
	Animation *Animation `json:"animation,omitempty"`
}

// Animation describes an entrance animation.
type Animation struct {
	Type       string `json:"type,omitempty"`
	Trigger    string `json:"trigger,omitempty"`
	DelayMs    *int   `json:"delayMs,omitempty"`
	DurationMs *int   `json:"durationMs,omitempty"`
	Once       *bool  `json:"once,omitempty"`
}

// Visibility hides a block on some devices. HideOn and ShowOnlyOn are
// mutually exclusive; use the setters to keep them so.
type Visibility struct {
	HideOn     []responsive.Breakpoint `json:"hideOn,omitempty"`
	ShowOnlyOn []responsive.Breakpoint `json:"showOnlyOn,omitempty"`
}

// SetHideOn replaces the hidden device list. A non-empty list clears
// ShowOnlyOn.
func (s *Style) SetHideOn(bps ...responsive.Breakpoint) {
	v := s.visibility()
	v.HideOn = slices.Clone(bps)
	if len(bps) > 0 {
		v.ShowOnlyOn = nil
	}
}

// SetShowOnlyOn replaces the exclusive device list. A non-empty list clears
// HideOn.
func (s *Style) SetShowOnlyOn(bps ...responsive.Breakpoint) {
	v := s.visibility()
	v.ShowOnlyOn = slices.Clone(bps)
	if len(bps) > 0 {
		v.HideOn = nil
	}
}

func (s *Style) visibility() *Visibility {
	if s.Visibility == nil {
		s.Visibility = &Visibility{}
	}
	return s.Visibility
}

// Advanced holds per-block settings outside the style envelope.
type Advanced struct {
	AnchorID        string  `json:"anchorId,omitempty"`
	CustomClassName string  `json:"customClassName,omitempty"`
	PresetLock      bool    `json:"presetLock,omitempty"`
	CTA             *Action `json:"cta,omitempty"`
}

// SetAnchor stores raw as a URL-friendly anchor id. An input with nothing
// usable clears the anchor.
func (a *Advanced) SetAnchor(raw string) {
	a.AnchorID = slug.Make(raw)
}

// Action is a link rendered as a button.
type Action struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Variant string `json:"variant,omitempty"`
	Target  string `json:"target,omitempty"`
}
