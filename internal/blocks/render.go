package blocks

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
	"github.com/leapstack-labs/pagecraft/pkg/surface"
)

// renderFunc draws decoded content inside a block surface.
type renderFunc func(c surface.Context, b block.Instance, content any) templ.Component

func renderer[T any](fn func(surface.Context, block.Instance, *T) templ.Component) renderFunc {
	return func(c surface.Context, b block.Instance, content any) templ.Component {
		t, ok := content.(*T)
		if !ok {
			return nil
		}
		return fn(c, b, t)
	}
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// styleAlign picks one alignment token from the block's responsive
// horizontal alignment. Markup classes cannot switch per breakpoint, so the
// first defined value stands in for all of them.
func styleAlign(b block.Instance) (string, bool) {
	if b.Style == nil || b.Style.Layout == nil {
		return "", false
	}
	return responsive.ResolveSingle(b.Style.Layout.HorizontalAlign)
}

func headingAlignClass(b block.Instance) string {
	align, _ := styleAlign(b)
	switch align {
	case "end":
		return "ml-auto text-right"
	case "start":
		return "mr-auto text-left"
	default:
		return "mx-auto text-center"
	}
}

func gridColumns(n int) string {
	switch {
	case n <= 1:
		return "sm:grid-cols-1"
	case n == 2:
		return "sm:grid-cols-2"
	case n == 3:
		return "sm:grid-cols-2 lg:grid-cols-3"
	default:
		return "sm:grid-cols-2 lg:grid-cols-" + strconv.Itoa(min(n, 6))
	}
}

var heroContainerWidth = map[string]string{
	"default": "max-w-5xl",
	"wide":    "max-w-6xl",
	"narrow":  "max-w-2xl",
}

var heroAlignment = map[string]string{
	"left":   "items-start text-left",
	"center": "items-center text-center",
}

var richTextWidth = map[string]string{
	"prose":  "prose prose-lg",
	"narrow": "max-w-2xl",
	"full":   "max-w-none",
}

var ctaBackground = map[string]string{
	"muted":  "rounded-3xl bg-muted/60 p-10",
	"accent": "rounded-3xl bg-accent p-10 text-accent-foreground",
	"dark":   "rounded-3xl bg-foreground p-10 text-background",
	"image":  "relative overflow-hidden rounded-3xl p-10 text-white",
	"none":   "",
}

func heroAlign(b block.Instance, c *Hero) string {
	if _, custom := styleAlign(b); custom {
		return ""
	}
	return heroAlignment[c.Alignment]
}

func heroHasMedia(c *Hero) bool {
	return c.Media != nil && c.Media.Src != ""
}

func heroInset(c *Hero) string {
	if heroHasMedia(c) {
		return "lg:mx-0"
	}
	return "mx-auto"
}

// heroActions lists the primary then the secondary action. A secondary
// action without its own variant is drawn outlined.
func heroActions(c *Hero) []Action {
	var actions []Action
	if c.PrimaryAction != nil {
		actions = append(actions, *c.PrimaryAction)
	}
	if c.SecondaryAction != nil {
		secondary := *c.SecondaryAction
		if secondary.Variant == "" || secondary.Variant == "default" {
			secondary.Variant = "outline"
		}
		actions = append(actions, secondary)
	}
	return actions
}

func statValueClass(c *StatGrid) string {
	if c.EmphasizeValue != nil && *c.EmphasizeValue {
		return "text-4xl font-bold text-primary"
	}
	return "text-3xl font-semibold text-foreground"
}

func markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func richTextWidthClass(b block.Instance, c *RichText) string {
	if b.Style != nil && b.Style.Layout != nil && b.Style.Layout.MaxWidth.Has() {
		return "max-w-none"
	}
	return richTextWidth[c.Width]
}

func richTextAlign(b block.Instance, c *RichText) string {
	if _, custom := styleAlign(b); custom {
		return ""
	}
	if c.Align == "center" {
		return "text-center mx-auto"
	}
	return "mx-auto text-left"
}

func richTextCTA(b block.Instance) (Action, bool) {
	if b.Advanced == nil || b.Advanced.CTA == nil || b.Advanced.CTA.Label == "" {
		return Action{}, false
	}
	cta := b.Advanced.CTA
	return Action{Label: cta.Label, Href: cta.Href, Variant: cta.Variant, Target: cta.Target}, true
}

func richTextJustify(b block.Instance, c *RichText) string {
	styleValue, _ := styleAlign(b)
	switch {
	case styleValue == "center":
		return "justify-center"
	case styleValue == "end":
		return "justify-end"
	case c.Align == "center":
		return "justify-center"
	}
	return "justify-start"
}

func imageRounded(img *FeatureImage) string {
	if img.Rounded == nil || *img.Rounded {
		return "rounded-3xl"
	}
	return ""
}

func imageFeatureOrder(c *ImageFeature) string {
	if c.Layout == "imageLeft" {
		return "lg:order-first"
	}
	return ""
}

func featureCard(c *FeatureGrid) string {
	if c.Variant == "plain" {
		return "p-2"
	}
	return "rounded-2xl border border-border/60 bg-card p-6 shadow-sm"
}

func ctaLayout(c *CallToAction) string {
	if c.Layout == "split" {
		return "grid items-center gap-8 lg:grid-cols-[2fr_1fr]"
	}
	return "flex flex-col items-center gap-6 text-center"
}

func faqGrid(c *FAQ) string {
	if c.Layout == "twoColumn" {
		return "grid gap-4 md:grid-cols-2"
	}
	return "grid gap-4"
}

func listingTrack(l Listing) string {
	if l.Layout == "carousel" {
		return "flex snap-x gap-6 overflow-x-auto"
	}
	return "grid gap-6 sm:grid-cols-2 lg:grid-cols-3"
}

func safeURL(u string) string {
	return string(templ.URL(u))
}

// cls joins the non-blank class groups.
func cls(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func renderTreatments(_ surface.Context, b block.Instance, c *Treatments) templ.Component {
	return renderListing(b, c.Listing, "treatments", c.Categories)
}

func renderDoctors(_ surface.Context, b block.Instance, c *Doctors) templ.Component {
	return renderListing(b, c.Listing, "doctors", c.Specialties)
}

// renderUnsupported marks a block the registry cannot draw.
func renderUnsupported(msg string) surface.Renderer {
	return func(surface.Context) templ.Component {
		return unsupported(msg)
	}
}
