package blocks

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

const summaryLength = 48

// Summary is the one-line description shown in the structure list.
func Summary(b block.Instance) string {
	switch b.Kind {
	case KindHero, KindImageFeature, KindCallToAction:
		return b.Text("heading")
	case KindStatGrid:
		return fmt.Sprintf("%d stats", b.Items("items"))
	case KindRichText:
		return truncate(b.Text("markdown"), summaryLength)
	case KindFeatureGrid:
		return fmt.Sprintf("%d features", b.Items("items"))
	case KindLogoGrid:
		return fmt.Sprintf("%d logos", b.Items("logos"))
	case KindFAQ:
		return fmt.Sprintf("%d questions", b.Items("items"))
	case KindQuote:
		if a := b.Text("attribution"); a != "" {
			return a
		}
		return "Quote"
	case KindTreatments:
		return titleOrCount(b, "treatments")
	case KindDoctors:
		return titleOrCount(b, "doctors")
	default:
		return ""
	}
}

func titleOrCount(b block.Instance, noun string) string {
	if t := b.Text("title"); t != "" {
		return t
	}
	limit := 6
	if n, ok := b.Number("limit"); ok {
		limit = int(n)
	}
	return fmt.Sprintf("%d %s", limit, noun)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
