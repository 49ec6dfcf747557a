package config

import "github.com/leapstack-labs/pagecraft/pkg/style"

// Default configuration values.
const (
	DefaultPagesDir  = "pages"
	DefaultStateFile = ".pagecraft/state.db"
	DefaultPadding   = "4rem"
)

// DefaultRenderConfig returns the section wrapper defaults.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PaddingTop:    DefaultPadding,
		PaddingBottom: DefaultPadding,
		InnerSelector: style.DefaultInnerSelector,
	}
}

// ApplyRenderDefaults fills unset fields of r.
func ApplyRenderDefaults(r *RenderConfig) {
	if r == nil {
		return
	}
	def := DefaultRenderConfig()
	if r.PaddingTop == "" {
		r.PaddingTop = def.PaddingTop
	}
	if r.PaddingBottom == "" {
		r.PaddingBottom = def.PaddingBottom
	}
	if r.InnerSelector == "" {
		r.InnerSelector = def.InnerSelector
	}
}

// ApplyDefaults applies default values to a ProjectConfig.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.PagesDir == "" {
		c.PagesDir = DefaultPagesDir
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
	if c.Render == nil {
		r := DefaultRenderConfig()
		c.Render = &r
	}
	ApplyRenderDefaults(c.Render)
}
