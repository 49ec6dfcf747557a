package blocks

// Content structs mirror the per-kind content schemas. Fields are decoded
// from a block's content map, filled with defaults, then validated.

// Action is a link button.
type Action struct {
	Label   string `json:"label" validate:"required"`
	Href    string `json:"href" validate:"required"`
	Variant string `json:"variant,omitempty" validate:"omitempty,oneof=default secondary outline ghost link"`
	Target  string `json:"target,omitempty" validate:"omitempty,oneof=_self _blank"`
	Icon    string `json:"icon,omitempty"`
}

func (a *Action) applyDefaults() {
	if a.Variant == "" {
		a.Variant = "default"
	}
}

func applyActionDefaults(actions []Action) {
	for i := range actions {
		actions[i].applyDefaults()
	}
}

// HeroMedia is the image or video beside a hero heading.
type HeroMedia struct {
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=image video"`
	Src         string `json:"src" validate:"required"`
	Alt         string `json:"alt,omitempty"`
	Caption     string `json:"caption,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// Hero is the content of a hero block.
type Hero struct {
	Eyebrow         string     `json:"eyebrow,omitempty"`
	Heading         string     `json:"heading" validate:"required"`
	Highlight       string     `json:"highlight,omitempty"`
	Description     string     `json:"description,omitempty"`
	Alignment       string     `json:"alignment" validate:"oneof=left center"`
	Background      string     `json:"background" validate:"oneof=white muted gradient primary"`
	ContainerWidth  string     `json:"containerWidth" validate:"oneof=default wide narrow"`
	PrimaryAction   *Action    `json:"primaryAction,omitempty"`
	SecondaryAction *Action    `json:"secondaryAction,omitempty"`
	Media           *HeroMedia `json:"media,omitempty"`
}

func (c *Hero) applyDefaults() {
	c.Alignment = orDefault(c.Alignment, "center")
	c.Background = orDefault(c.Background, "white")
	c.ContainerWidth = orDefault(c.ContainerWidth, "default")
	if c.PrimaryAction != nil {
		c.PrimaryAction.applyDefaults()
	}
	if c.SecondaryAction != nil {
		c.SecondaryAction.applyDefaults()
	}
	if c.Media != nil {
		c.Media.Type = orDefault(c.Media.Type, "image")
	}
}

// Stat is one metric in a stat grid.
type Stat struct {
	Label  string `json:"label" validate:"required"`
	Value  string `json:"value" validate:"required"`
	Helper string `json:"helper,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// StatGrid is the content of a statGrid block.
type StatGrid struct {
	Eyebrow        string `json:"eyebrow,omitempty"`
	Heading        string `json:"heading,omitempty"`
	Description    string `json:"description,omitempty"`
	Columns        int    `json:"columns" validate:"min=1,max=4"`
	EmphasizeValue *bool  `json:"emphasizeValue"`
	Items          []Stat `json:"items" validate:"min=1,dive"`
}

func (c *StatGrid) applyDefaults() {
	c.Columns = intOrDefault(c.Columns, 4)
	c.EmphasizeValue = boolOrDefault(c.EmphasizeValue, true)
}

// RichText is the content of a richText block.
type RichText struct {
	Markdown string `json:"markdown" validate:"required"`
	Align    string `json:"align" validate:"oneof=start center"`
	Width    string `json:"width" validate:"oneof=prose narrow full"`
}

func (c *RichText) applyDefaults() {
	c.Align = orDefault(c.Align, "start")
	c.Width = orDefault(c.Width, "prose")
}

// FeatureItem is a bullet in an image feature.
type FeatureItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// FeatureImage is the image of an image feature.
type FeatureImage struct {
	Src         string `json:"src" validate:"required"`
	Alt         string `json:"alt,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Rounded     *bool  `json:"rounded"`
}

// ImageFeature is the content of an imageFeature block.
type ImageFeature struct {
	Layout  string        `json:"layout" validate:"oneof=imageLeft imageRight"`
	Eyebrow string        `json:"eyebrow,omitempty"`
	Heading string        `json:"heading" validate:"required"`
	Body    string        `json:"body,omitempty"`
	Items   []FeatureItem `json:"items,omitempty" validate:"omitempty,dive"`
	Image   *FeatureImage `json:"image,omitempty"`
	Actions []Action      `json:"actions,omitempty" validate:"omitempty,max=2,dive"`
}

func (c *ImageFeature) applyDefaults() {
	c.Layout = orDefault(c.Layout, "imageRight")
	if c.Image != nil {
		c.Image.Rounded = boolOrDefault(c.Image.Rounded, true)
	}
	applyActionDefaults(c.Actions)
}

// GridItem is one card of a feature grid.
type GridItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Tag         string `json:"tag,omitempty"`
}

// FeatureGrid is the content of a featureGrid block.
type FeatureGrid struct {
	Eyebrow     string     `json:"eyebrow,omitempty"`
	Heading     string     `json:"heading,omitempty"`
	Description string     `json:"description,omitempty"`
	Columns     int        `json:"columns" validate:"min=1,max=4"`
	Variant     string     `json:"variant" validate:"oneof=cards plain"`
	Items       []GridItem `json:"items" validate:"min=1,dive"`
}

func (c *FeatureGrid) applyDefaults() {
	c.Columns = intOrDefault(c.Columns, 3)
	c.Variant = orDefault(c.Variant, "cards")
}

// Logo is one entry of a logo grid.
type Logo struct {
	Name string `json:"name" validate:"required"`
	Src  string `json:"src" validate:"required"`
	Href string `json:"href,omitempty"`
}

// LogoGrid is the content of a logoGrid block.
type LogoGrid struct {
	Eyebrow     string `json:"eyebrow,omitempty"`
	Heading     string `json:"heading,omitempty"`
	Description string `json:"description,omitempty"`
	Columns     int    `json:"columns" validate:"min=2,max=6"`
	Logos       []Logo `json:"logos" validate:"min=2,dive"`
}

func (c *LogoGrid) applyDefaults() {
	c.Columns = intOrDefault(c.Columns, 5)
}

// CTAImage is the backdrop of a call to action.
type CTAImage struct {
	Src     string `json:"src" validate:"required"`
	Alt     string `json:"alt,omitempty"`
	Overlay *bool  `json:"overlay"`
}

// CallToAction is the content of a callToAction block.
type CallToAction struct {
	Eyebrow     string    `json:"eyebrow,omitempty"`
	Heading     string    `json:"heading" validate:"required"`
	Description string    `json:"description,omitempty"`
	Layout      string    `json:"layout" validate:"oneof=centered split"`
	Background  string    `json:"background" validate:"oneof=muted accent dark image none"`
	Image       *CTAImage `json:"image,omitempty"`
	Actions     []Action  `json:"actions" validate:"min=1,max=2,dive"`
}

func (c *CallToAction) applyDefaults() {
	c.Layout = orDefault(c.Layout, "centered")
	c.Background = orDefault(c.Background, "muted")
	if c.Image != nil {
		c.Image.Overlay = boolOrDefault(c.Image.Overlay, true)
	}
	applyActionDefaults(c.Actions)
}

// FAQItem is one question and answer.
type FAQItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// FAQ is the content of a faq block.
type FAQ struct {
	Eyebrow     string    `json:"eyebrow,omitempty"`
	Heading     string    `json:"heading,omitempty"`
	Description string    `json:"description,omitempty"`
	Layout      string    `json:"layout" validate:"oneof=twoColumn single"`
	Items       []FAQItem `json:"items" validate:"min=1,dive"`
}

func (c *FAQ) applyDefaults() {
	c.Layout = orDefault(c.Layout, "twoColumn")
}

// Avatar is the portrait beside a quote.
type Avatar struct {
	Src string `json:"src" validate:"required"`
	Alt string `json:"alt,omitempty"`
}

// Quote is the content of a quote block.
type Quote struct {
	Eyebrow     string  `json:"eyebrow,omitempty"`
	Quote       string  `json:"quote" validate:"required"`
	Attribution string  `json:"attribution,omitempty"`
	Role        string  `json:"role,omitempty"`
	Avatar      *Avatar `json:"avatar,omitempty"`
	Highlight   string  `json:"highlight,omitempty"`
}

func (c *Quote) applyDefaults() {}

// Listing is the content of the data-backed treatments and doctors blocks.
// Filters holds the category or specialty filter and Manual the hand-picked
// entries; their JSON names differ per kind.
type Listing struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Layout       string `json:"layout" validate:"oneof=grid carousel"`
	Limit        int    `json:"limit" validate:"min=1,max=12"`
	FeaturedOnly bool   `json:"featuredOnly"`
}

func (c *Listing) applyDefaults() {
	c.Layout = orDefault(c.Layout, "grid")
	c.Limit = intOrDefault(c.Limit, 6)
}

// Treatments is the content of a treatments block.
type Treatments struct {
	Listing
	Categories       []string `json:"categories,omitempty"`
	ManualTreatments []string `json:"manualTreatments,omitempty"`
}

// Doctors is the content of a doctors block.
type Doctors struct {
	Listing
	Specialties   []string `json:"specialties,omitempty"`
	ManualDoctors []string `json:"manualDoctors,omitempty"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func boolOrDefault(v *bool, def bool) *bool {
	if v == nil {
		return &def
	}
	return v
}
