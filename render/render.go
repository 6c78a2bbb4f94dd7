// Package render substitutes "{{ path }}" expressions over a context tree
// built from an inbound DHCP packet and accumulated script/query results.
// It is grounded on original_source/src/sources/rest.rs's template_values:
// a template whose entire body is one bare expression yields the raw
// resolved value (list, map, number, bool, string) rather than a
// stringified one, so a mapping entry can project a JSON array straight
// into an ipv4_list option. Everything else is handled by pongo2, the Go
// analog of the Jinja-like engine (tera) the original implementation used.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
)

var (
	exprPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)
	barePattern = regexp.MustCompile(`^\{\{\s*([^{}]+?)\s*\}\}$`)
)

// Context is the template variable tree: top-level packet fields plus
// "results.<query_name>.<json path>" entries accumulated by the pipeline.
type Context map[string]interface{}

// MissingPathError reports that a template referenced a path absent from
// the context. The resolution pipeline treats it as fatal for a required
// mapping entry and skips an optional one; script and query templates
// never see it, since they render missing paths as empty.
type MissingPathError struct {
	Path string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("render: missing path %q", e.Path)
}

// Lookup walks a dotted/bracketed path ("results.hosts.0.router") over ctx
// and reports whether it resolved to a present value.
func Lookup(ctx Context, path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(ctx)
	for _, seg := range splitPath(path) {
		switch v := cur.(type) {
		case map[string]interface{}:
			val, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = val
		case Context:
			val, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = val
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	var segs []string
	for _, s := range strings.Split(path, ".") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// RenderString interpolates every "{{ path }}" occurrence in tmpl as a
// string, via pongo2, with any missing path rendering as empty. Use this
// for script arguments and query URLs/headers, where there is no
// required/optional distinction.
func RenderString(tmpl string, ctx Context) (string, error) {
	tpl, err := pongo2.FromString(tmpl)
	if err != nil {
		return "", fmt.Errorf("render: parse: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context(ctx))
	if err != nil {
		return "", fmt.Errorf("render: execute: %w", err)
	}
	return out, nil
}

// Eval renders tmpl against ctx. If tmpl is a single bare "{{ path }}"
// expression, Eval returns the raw resolved value (which may be a
// non-string) and, when strict is true, a *MissingPathError if the path is
// absent. In the non-strict case a missing bare path resolves to "". For
// any other template shape (mixed text, multiple expressions), Eval checks
// every "{{ path }}" occurrence against ctx first: when strict is true and
// any of them is absent, it returns a *MissingPathError naming that path
// before ever calling RenderString, so "required: true" is honored
// regardless of template shape. Otherwise it falls back to RenderString,
// where missing paths render as empty.
func Eval(tmpl string, ctx Context, strict bool) (interface{}, error) {
	if m := barePattern.FindStringSubmatch(tmpl); m != nil {
		path := strings.TrimSpace(m[1])
		v, ok := Lookup(ctx, path)
		if !ok {
			if strict {
				return nil, &MissingPathError{Path: path}
			}
			return "", nil
		}
		return v, nil
	}
	if strict {
		for _, m := range exprPattern.FindAllStringSubmatch(tmpl, -1) {
			path := strings.TrimSpace(m[1])
			if _, ok := Lookup(ctx, path); !ok {
				return nil, &MissingPathError{Path: path}
			}
		}
	}
	return RenderString(tmpl, ctx)
}

// RenderValue recursively evaluates string leaves of v (which may itself
// be a scalar, []interface{}, or map[string]interface{}, per the mapping
// entry "data" and query "body" shapes) against ctx, applying the same
// bare-expression passthrough rule as Eval.
func RenderValue(v interface{}, ctx Context, strict bool) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return Eval(val, ctx, strict)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			rendered, err := RenderValue(item, ctx, strict)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			rendered, err := RenderValue(item, ctx, strict)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	default:
		return val, nil
	}
}
