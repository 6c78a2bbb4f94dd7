package render

import (
	"errors"
	"testing"
)

func TestLookupDotted(t *testing.T) {
	ctx := Context{
		"results": map[string]interface{}{
			"hosts": map[string]interface{}{
				"router": "10.0.0.1",
			},
		},
	}
	v, ok := Lookup(ctx, "results.hosts.router")
	if !ok || v != "10.0.0.1" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestLookupBracketIndex(t *testing.T) {
	ctx := Context{
		"results": map[string]interface{}{
			"hosts": []interface{}{"a", "b", "c"},
		},
	}
	v, ok := Lookup(ctx, "results.hosts[1]")
	if !ok || v != "b" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestLookupMissing(t *testing.T) {
	ctx := Context{"client_hardware_address": "08:00:27:29:4e:67"}
	_, ok := Lookup(ctx, "results.nope.router")
	if ok {
		t.Fatalf("expected missing path to report not-ok")
	}
}

func TestEvalBarePathPassthroughNonString(t *testing.T) {
	ctx := Context{
		"results": map[string]interface{}{
			"hosts": map[string]interface{}{
				"nameservers": []interface{}{"8.8.8.8", "1.1.1.1"},
			},
		},
	}
	v, err := Eval("{{ results.hosts.nameservers }}", ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := v.([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("expected raw list passthrough, got %#v", v)
	}
}

func TestEvalMissingNotStrictRendersEmpty(t *testing.T) {
	ctx := Context{}
	v, err := Eval("{{ missing_path }}", ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "" {
		t.Fatalf("expected empty string, got %#v", v)
	}
}

func TestEvalMissingStrictErrors(t *testing.T) {
	ctx := Context{}
	_, err := Eval("{{ missing_path }}", ctx, true)
	var missErr *MissingPathError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected MissingPathError, got %v", err)
	}
}

func TestEvalMixedTemplateMissingStrictErrors(t *testing.T) {
	ctx := Context{"client_hardware_address": "08:00:27:29:4e:67"}
	_, err := Eval("host-{{ missing_path }}", ctx, true)
	var missErr *MissingPathError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected MissingPathError, got %v", err)
	}
	if missErr.Path != "missing_path" {
		t.Fatalf("expected path %q, got %q", "missing_path", missErr.Path)
	}
}

func TestEvalMixedTemplateMissingNotStrictRendersEmpty(t *testing.T) {
	ctx := Context{}
	v, err := Eval("host-{{ missing_path }}", ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "host-" {
		t.Fatalf("got %#v", v)
	}
}

func TestRenderStringInterpolation(t *testing.T) {
	ctx := Context{"client_hardware_address": "08:00:27:29:4e:67"}
	out, err := RenderString("--mac={{ client_hardware_address }}", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "--mac=08:00:27:29:4e:67" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderValueRecursesOverMap(t *testing.T) {
	ctx := Context{"client_hardware_address": "08:00:27:29:4e:67"}
	in := map[string]interface{}{
		"mac":   "{{ client_hardware_address }}",
		"count": 3,
	}
	out, err := RenderValue(in, ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.(map[string]interface{})
	if m["mac"] != "08:00:27:29:4e:67" || m["count"] != 3 {
		t.Fatalf("got %#v", m)
	}
}
