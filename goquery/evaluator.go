// Package goquery evaluates extraction field plans against HTML documents
// using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/schemacrawl"
)

// Evaluator applies a field plan to an HTML document and produces
// extracted records.
type Evaluator struct {
	baseSelector string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithBaseSelector scopes evaluation to each element matched by the
// selector, producing one record per match. Without a base selector the
// whole document yields a single record.
func WithBaseSelector(selector string) Option {
	return func(e *Evaluator) {
		e.baseSelector = selector
	}
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate parses the HTML and extracts one record per repeated structure
// (or a single record for the whole document). Fields that match nothing
// yield empty values rather than errors; the confidence scorer downstream
// is what surfaces sparse extractions.
func (e *Evaluator) Evaluate(html string, plan schemacrawl.Plan) ([]schemacrawl.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	if e.baseSelector != "" {
		var records []schemacrawl.Record
		doc.Find(e.baseSelector).Each(func(_ int, sel *goquery.Selection) {
			records = append(records, evalPlan(sel, plan))
		})
		if records != nil {
			return records, nil
		}
		// Base selector matched nothing: fall through to whole-document
		// evaluation so a slightly-off schema still yields a scoreable
		// record instead of silently returning nothing.
	}

	return []schemacrawl.Record{evalPlan(doc.Selection, plan)}, nil
}

// evalPlan extracts one record from the given context selection.
func evalPlan(ctx *goquery.Selection, plan schemacrawl.Plan) schemacrawl.Record {
	rec := make(schemacrawl.Record, len(plan))
	for _, f := range plan {
		if f.Type == schemacrawl.FieldNested {
			rec[f.Name] = map[string]any(evalPlan(ctx, f.Children))
			continue
		}
		rec[f.Name] = evalLeaf(ctx, f)
	}
	return rec
}

// evalLeaf extracts one leaf field value. An empty selector means "no
// further refinement": the value is read from the nearest ancestor
// context.
func evalLeaf(ctx *goquery.Selection, f schemacrawl.Field) any {
	target := ctx
	if f.Selector != "" {
		target = ctx.Find(f.Selector)
	}

	switch f.Type {
	case schemacrawl.FieldList:
		var values []string
		target.Each(func(_ int, sel *goquery.Selection) {
			v := leafValue(sel, f.Attribute)
			if v != "" {
				values = append(values, v)
			}
		})
		return values
	case schemacrawl.FieldText:
		return strings.TrimSpace(target.First().Text())
	default:
		if f.Attribute == "" {
			return ""
		}
		return target.First().AttrOr(f.Attribute, "")
	}
}

// leafValue reads a single value from one element: a named attribute if
// set, otherwise the element's text.
func leafValue(sel *goquery.Selection, attribute string) string {
	if attribute != "" {
		return sel.AttrOr(attribute, "")
	}
	return strings.TrimSpace(sel.Text())
}
