// Package schema finds embedded schema.org Recipe data in a page and turns
// every recipe node into a candidate. An optional scraper adapter
// contributes one more candidate after the embedded ones.
package schema

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/adapter"
	"github.com/gaurav-prasanna/recipepipe/core/jsonld"
)

const ldScripts = `//script[contains(translate(@type,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz'),'ld+json')]`

// Extractor implements core.CandidateExtractor.
type Extractor struct {
	adapter adapter.Adapter
	logger  *zap.Logger
}

// New creates an Extractor. a may be nil; otherwise it is wrapped with
// adapter.Safe so that it never fails the extraction.
func New(a adapter.Adapter, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{adapter: adapter.Safe(a, logger), logger: logger}
}

// Extract returns candidates in discovery order: every Recipe node of every
// well-formed JSON-LD block, then the adapter's candidate if any. Malformed
// blocks are skipped.
func (e *Extractor) Extract(ctx context.Context, doc *goquery.Document, rawHTML, pageURL string) []core.RecipeCandidate {
	var out []core.RecipeCandidate

	for i, block := range ldBlocks(doc) {
		var v any
		if err := sonic.UnmarshalString(block, &v); err != nil {
			e.logger.Debug("skipping malformed JSON-LD block",
				zap.Int("block", i), zap.String("url", pageURL), zap.Error(err))
			continue
		}
		jsonld.Walk(v, func(node map[string]any) {
			out = append(out, jsonld.Candidate(node, pageURL))
		})
	}

	if e.adapter != nil {
		if c, _ := e.adapter.TryExtract(ctx, pageURL, rawHTML); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// ldBlocks returns the text of every JSON-LD script in document order.
func ldBlocks(doc *goquery.Document) []string {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil
	}
	nodes, err := htmlquery.QueryAll(doc.Nodes[0], ldScripts)
	if err != nil {
		return nil
	}

	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if text := unwrap(htmlquery.InnerText(n)); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// unwrap strips comment and CDATA guards some sites put around the JSON.
func unwrap(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range [][2]string{{"<!--", "-->"}, {"//<![CDATA[", "//]]>"}, {"<![CDATA[", "]]>"}} {
		if strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) {
			s = strings.TrimSpace(s[len(p[0]) : len(s)-len(p[1])])
		}
	}
	return strings.TrimSuffix(s, ";")
}
