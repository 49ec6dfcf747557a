// Package stylecheck lints the per-block stylesheets the surface emits.
//
// A block stylesheet is only correct when it parses, every selector is
// scoped to an id, and unconditional rules come before min-width media
// blocks which themselves ascend. Anything else lets a narrower rule
// override a wider one.
package stylecheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Severity ranks an issue.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one lint finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return string(i.Severity) + ": " + i.Message
}

// Report summarizes a stylesheet.
type Report struct {
	Rules        int     `json:"rules"`
	MediaBlocks  int     `json:"mediaBlocks"`
	Declarations int     `json:"declarations"`
	Issues       []Issue `json:"issues,omitempty"`
}

// HasErrors reports whether any issue is an error.
func (r Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) errorf(format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

type checker struct {
	parser *css.Parser
	report Report

	// widest min-width seen so far; -1 before any media block
	lastWidth int
	seen      map[string]bool
}

// Check lints a stylesheet.
func Check(sheet string) Report {
	c := &checker{
		parser:    css.NewParser(parse.NewInput(bytes.NewReader([]byte(sheet))), false),
		lastWidth: -1,
		seen:      map[string]bool{},
	}
	c.run()
	return c.report
}

func (c *checker) run() {
	for {
		gt, _, data := c.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if c.stop() {
				return
			}
		case css.BeginAtRuleGrammar:
			if string(data) != "@media" {
				c.report.warnf("unexpected at-rule %s", data)
				c.skipBlock()
				continue
			}
			c.media(c.parser.Values())
		case css.AtRuleGrammar:
			c.report.warnf("unexpected at-rule %s", data)
		case css.BeginRulesetGrammar:
			if c.lastWidth >= 0 {
				c.report.errorf("unconditional rule %s follows a media block", selector(data, c.parser.Values()))
			}
			c.ruleset("", data, c.parser.Values())
		}
	}
}

// stop handles an ErrorGrammar and reports whether parsing is over.
func (c *checker) stop() bool {
	err := c.parser.Err()
	if err == nil {
		c.report.errorf("malformed CSS")
		return false
	}
	if !errors.Is(err, io.EOF) {
		c.report.errorf("parse error: %v", err)
	}
	return true
}

func (c *checker) media(prelude []css.Token) {
	c.report.MediaBlocks++
	width, ok := minWidth(prelude)
	query := tokensString(prelude)
	switch {
	case !ok:
		c.report.warnf("media query %q is not a min-width query", query)
	case width < c.lastWidth:
		c.report.errorf("media query %q follows a wider breakpoint (%dpx)", query, c.lastWidth)
	default:
		c.lastWidth = width
	}

	for {
		gt, _, data := c.parser.Next()
		switch gt {
		case css.EndAtRuleGrammar:
			return
		case css.ErrorGrammar:
			if c.stop() {
				return
			}
		case css.BeginAtRuleGrammar:
			c.report.errorf("nested at-rule %s inside %q", data, query)
			c.skipBlock()
		case css.BeginRulesetGrammar:
			c.ruleset(query, data, c.parser.Values())
		}
	}
}

func (c *checker) ruleset(scope string, data []byte, values []css.Token) {
	c.report.Rules++
	sel := selector(data, values)
	for s := range strings.SplitSeq(sel, ",") {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "#") {
			c.report.errorf("selector %q is not scoped to a block id", s)
		}
	}

	var body strings.Builder
	for {
		gt, _, data := c.parser.Next()
		switch gt {
		case css.EndRulesetGrammar:
			key := scope + "|" + sel + "{" + body.String() + "}"
			if c.seen[key] {
				c.report.warnf("duplicate rule %s", sel)
			}
			c.seen[key] = true
			return
		case css.ErrorGrammar:
			if c.stop() {
				return
			}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			c.report.Declarations++
			vals := c.parser.Values()
			value := tokensString(vals)
			if value == "" {
				c.report.warnf("empty value for %s in %s", data, sel)
			}
			body.Write(data)
			body.WriteByte(':')
			body.WriteString(value)
			body.WriteByte(';')
		}
	}
}

func (c *checker) skipBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := c.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if c.stop() {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// minWidth extracts N from a "(min-width: Npx)" prelude.
func minWidth(tokens []css.Token) (int, bool) {
	var idents []string
	var dims []string
	for _, t := range tokens {
		switch t.TokenType {
		case css.IdentToken:
			idents = append(idents, strings.ToLower(string(t.Data)))
		case css.DimensionToken:
			dims = append(dims, strings.ToLower(string(t.Data)))
		}
	}
	if len(idents) != 1 || idents[0] != "min-width" || len(dims) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(dims[0], "px"))
	if err != nil {
		return 0, false
	}
	return n, true
}

func selector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}

func tokensString(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}
