// Package rest implements the "rest" source kind: a resolution pipeline
// that runs scripts, then HTTP queries, then projects the results into a
// DHCP option set through a template-driven mapping. Grounded directly on
// original_source/src/sources/rest.rs (DhcpRestSource, DhcpRestConfigSchemaQuery,
// DhcpRestConfigSchemaScript, context_to_result), adapted into the Go idiom
// and with scripts always run before queries, across every hook — unlike
// the original, which only did so for "offer" and ran queries first.
package rest

import (
	"fmt"

	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
)

// ScriptSpec is a side-effect command run before any query for a hook.
type ScriptSpec struct {
	Exec    string   `mapstructure:"exec"`
	Args    []string `mapstructure:"args"`
	Wait    bool     `mapstructure:"wait"`
	Timeout int      `mapstructure:"timeout"`
}

var defaultScriptSpec = ScriptSpec{Wait: false, Timeout: 5}

// QuerySpec is an HTTP call whose JSON response is merged into the
// template context under results.<Name>.
type QuerySpec struct {
	Name      string            `mapstructure:"name"`
	URL       string            `mapstructure:"url"`
	Method    string            `mapstructure:"method"`
	Headers   map[string]string `mapstructure:"headers"`
	Body      interface{}       `mapstructure:"body"`
	SSLVerify *bool             `mapstructure:"ssl_verify"`
	Cache     int               `mapstructure:"cache"`
}

var (
	defaultTrue       = true
	defaultQuerySpec  = QuerySpec{Method: "GET", SSLVerify: &defaultTrue}
)

// MappingEntry projects one named DHCP option (or the reserved "yiaddr"/
// "client_ip_address" pseudo-names) from a templated value. Tag/Kind allow
// overriding the option registry for options outside the standard table.
type MappingEntry struct {
	Data     interface{} `mapstructure:"data"`
	Required bool        `mapstructure:"required"`
	Tag      *int        `mapstructure:"tag"`
	Kind     *string     `mapstructure:"kind"`
}

// HookConfig is the scripts/queries/mapping triple for one DHCP message
// type hook.
type HookConfig struct {
	Scripts []ScriptSpec
	Queries []QuerySpec
	Mapping map[string]MappingEntry
}

// Config is the full "rest" source configuration: one HookConfig per DHCP
// message type this source answers.
type Config struct {
	Offer   HookConfig
	Reserve HookConfig
	Release HookConfig
	Decline HookConfig
	Inform  HookConfig
}

type rawHookConfig struct {
	Scripts []ScriptSpec            `mapstructure:"scripts"`
	Queries []QuerySpec             `mapstructure:"queries"`
	Mapping map[string]interface{}  `mapstructure:"mapping"`
}

type rawConfig struct {
	Offer   rawHookConfig `mapstructure:"offer"`
	Reserve rawHookConfig `mapstructure:"reserve"`
	Release rawHookConfig `mapstructure:"release"`
	Decline rawHookConfig `mapstructure:"decline"`
	Inform  rawHookConfig `mapstructure:"inform"`
}

// FromRaw decodes a source's generic config.Config block (map[string]interface{})
// into a typed rest.Config, applying ScriptSpec/QuerySpec defaults and
// normalizing the mapping shorthand (§3: a bare scalar/list mapping value
// is shorthand for {data: <value>, required: false}).
func FromRaw(raw map[string]interface{}) (*Config, error) {
	var rc rawConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &rc, WeaklyTypedInput: true})
	if err != nil {
		return nil, fmt.Errorf("rest: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("rest: decoding source config: %w", err)
	}

	cfg := &Config{}
	pairs := []struct {
		raw *rawHookConfig
		out *HookConfig
	}{
		{&rc.Offer, &cfg.Offer},
		{&rc.Reserve, &cfg.Reserve},
		{&rc.Release, &cfg.Release},
		{&rc.Decline, &cfg.Decline},
		{&rc.Inform, &cfg.Inform},
	}
	for _, p := range pairs {
		hc, err := normalizeHook(*p.raw)
		if err != nil {
			return nil, err
		}
		*p.out = *hc
	}
	return cfg, nil
}

func normalizeHook(raw rawHookConfig) (*HookConfig, error) {
	hc := &HookConfig{Mapping: map[string]MappingEntry{}}

	for _, s := range raw.Scripts {
		merged := s
		if err := mergo.Merge(&merged, defaultScriptSpec); err != nil {
			return nil, fmt.Errorf("rest: applying script defaults: %w", err)
		}
		hc.Scripts = append(hc.Scripts, merged)
	}

	for _, q := range raw.Queries {
		merged := q
		if err := mergo.Merge(&merged, defaultQuerySpec); err != nil {
			return nil, fmt.Errorf("rest: applying query defaults: %w", err)
		}
		hc.Queries = append(hc.Queries, merged)
	}

	for name, v := range raw.Mapping {
		entry, err := normalizeMappingEntry(v)
		if err != nil {
			return nil, fmt.Errorf("rest: mapping %q: %w", name, err)
		}
		hc.Mapping[name] = entry
	}
	return hc, nil
}

func normalizeMappingEntry(v interface{}) (MappingEntry, error) {
	if m, ok := v.(map[string]interface{}); ok {
		if _, hasData := m["data"]; hasData {
			var entry MappingEntry
			if err := mapstructure.Decode(m, &entry); err != nil {
				return MappingEntry{}, err
			}
			return entry, nil
		}
	}
	return MappingEntry{Data: v, Required: false}, nil
}
