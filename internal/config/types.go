// Package config provides the project configuration shared by the CLI and
// the page builder: where pages live and how sections are styled.
package config

import "github.com/leapstack-labs/pagecraft/pkg/style"

// RenderConfig tunes the section wrapper every block is drawn in.
type RenderConfig struct {
	PaddingTop    string `koanf:"padding_top"`
	PaddingBottom string `koanf:"padding_bottom"`
	InnerSelector string `koanf:"inner_selector"`
}

// TokensConfig extends the built-in design token tables. Entries replace
// built-in tokens of the same name.
type TokensConfig struct {
	Spacing       map[string]string `koanf:"spacing"`
	MaxWidth      map[string]string `koanf:"max_width"`
	LetterSpacing map[string]string `koanf:"letter_spacing"`
}

// ProjectConfig is the part of pagecraft.yaml that describes the project
// rather than one invocation of the CLI.
type ProjectConfig struct {
	PagesDir    string        `koanf:"pages_dir"`
	StatePath   string        `koanf:"state_path"`
	PresetsFile string        `koanf:"presets_file"`
	Render      *RenderConfig `koanf:"render"`
	Tokens      *TokensConfig `koanf:"tokens"`
}

// Resolver builds the style resolver for render and tokens. Either may be
// nil.
func Resolver(render *RenderConfig, tokens *TokensConfig) *style.Resolver {
	t := style.DefaultTokens()
	if tokens != nil {
		t = t.Merge(tokens.Spacing, tokens.MaxWidth, tokens.LetterSpacing)
	}
	r := DefaultRenderConfig()
	if render != nil {
		r = *render
		ApplyRenderDefaults(&r)
	}
	return style.NewResolver(t,
		style.WithInnerSelector(r.InnerSelector),
		style.WithDefaultPadding(style.PaddingDefaults{Top: r.PaddingTop, Bottom: r.PaddingBottom}),
	)
}
