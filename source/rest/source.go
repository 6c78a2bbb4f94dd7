package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/northfield-labs/dhcpd/cache"
	"github.com/northfield-labs/dhcpd/option"
	"github.com/northfield-labs/dhcpd/render"
	"github.com/northfield-labs/dhcpd/wire"
)

// Hook names one of the five DHCP message types this source answers.
type Hook string

const (
	HookOffer   Hook = "offer"
	HookReserve Hook = "reserve"
	HookRelease Hook = "release"
	HookDecline Hook = "decline"
	HookInform  Hook = "inform"
)

// Result is what a resolved hook contributes to a reply: an address (only
// meaningful for offer/reserve/inform) and a set of options.
type Result struct {
	YourIP  net.IP
	Options []wire.Option
}

// Source runs the scripts-then-queries-then-mapping pipeline described in
// SPEC_FULL.md §4.5 for each hook.
type Source struct {
	cfg            Config
	registry       *option.Registry
	cache          *cache.Cache
	client         *http.Client
	insecureClient *http.Client
	log            logr.Logger
}

// New returns a Source ready to resolve hooks against cfg.
func New(cfg Config, registry *option.Registry, c *cache.Cache, log logr.Logger) *Source {
	return &Source{
		cfg:      cfg,
		registry: registry,
		cache:    c,
		log:      log,
		client:   &http.Client{Timeout: 15 * time.Second},
		insecureClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		},
	}
}

// Resolve runs the pipeline for hook against the inbound packet pkt,
// returning the address/options to apply to the reply.
func (s *Source) Resolve(ctx context.Context, hook Hook, pkt *wire.Message, serverIP net.IP) (*Result, error) {
	hc := s.hookConfig(hook)
	runID := uuid.New().String()
	log := s.log.WithValues("hook", string(hook), "run_id", runID, "mac", pkt.CHAddr.String())

	tctx := buildInitialContext(pkt, serverIP)

	for _, sc := range hc.Scripts {
		if err := s.runScript(ctx, sc, tctx); err != nil {
			log.Error(err, "script failed", "exec", sc.Exec)
			return nil, &PipelineError{Stage: "script", Name: sc.Exec, Err: err}
		}
	}

	sideEffectOnly := hook == HookRelease || hook == HookDecline

	results := tctx["results"].(map[string]interface{})
	for _, q := range hc.Queries {
		parsed, err := s.runQuery(ctx, q, tctx)
		if err != nil {
			if sideEffectOnly {
				log.Error(err, "query failed, continuing", "query", q.Name)
				continue
			}
			log.Error(err, "query failed", "query", q.Name)
			return nil, &PipelineError{Stage: "query", Name: q.Name, Err: err}
		}
		results[q.Name] = parsed
	}

	res, err := s.project(hc, tctx, log)
	if err != nil {
		log.Error(err, "mapping failed")
		return nil, err
	}
	return res, nil
}

func (s *Source) hookConfig(hook Hook) HookConfig {
	switch hook {
	case HookOffer:
		return s.cfg.Offer
	case HookReserve:
		return s.cfg.Reserve
	case HookRelease:
		return s.cfg.Release
	case HookDecline:
		return s.cfg.Decline
	case HookInform:
		return s.cfg.Inform
	}
	return HookConfig{}
}

// buildInitialContext seeds the template context from the inbound packet,
// mirroring the field set original_source/src/sources/rest.rs builds
// before running any script or query.
func buildInitialContext(pkt *wire.Message, serverIP net.IP) render.Context {
	ctx := render.Context{
		"client_hardware_address": pkt.CHAddr.String(),
		"client_ip_address":       pkt.CIAddr.String(),
		"server_ip_address":       serverIP.String(),
		"message_type":            int(pkt.MessageType()),
		"results":                 map[string]interface{}{},
	}
	if v, ok := pkt.GetOption(12); ok {
		ctx["client_hostname"] = string(v)
	}
	if v, ok := pkt.GetOption(60); ok {
		ctx["vendor_class_identifier"] = string(v)
	}
	if v, ok := pkt.GetOption(77); ok {
		ctx["user_class"] = string(v)
	}
	if !pkt.GIAddr.IsUnspecified() {
		ctx["gateway_ip_address"] = pkt.GIAddr.String()
	}
	return ctx
}

func (s *Source) runScript(ctx context.Context, sc ScriptSpec, tctx render.Context) error {
	execPath, err := render.RenderString(sc.Exec, tctx)
	if err != nil {
		return fmt.Errorf("rendering exec: %w", err)
	}
	args := make([]string, len(sc.Args))
	for i, a := range sc.Args {
		ra, err := render.RenderString(a, tctx)
		if err != nil {
			return fmt.Errorf("rendering arg %d: %w", i, err)
		}
		args[i] = ra
	}

	if !sc.Wait {
		cmd := exec.Command(execPath, args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting %q: %w", execPath, err)
		}
		go func() { _ = cmd.Wait() }() // detached: reap without blocking the pipeline
		return nil
	}

	timeout := time.Duration(sc.Timeout) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(defaultScriptSpec.Timeout) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, execPath, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %q: %w", execPath, err)
	}
	return nil
}

func (s *Source) runQuery(ctx context.Context, q QuerySpec, tctx render.Context) (interface{}, error) {
	renderedURL, err := render.RenderString(q.URL, tctx)
	if err != nil {
		return nil, fmt.Errorf("rendering url: %w", err)
	}

	headers := map[string]string{}
	for k, v := range q.Headers {
		rv, err := render.RenderString(v, tctx)
		if err != nil {
			return nil, fmt.Errorf("rendering header %q: %w", k, err)
		}
		headers[k] = rv
	}

	renderedBody, err := render.RenderValue(q.Body, tctx, false)
	if err != nil {
		return nil, fmt.Errorf("rendering body: %w", err)
	}

	var bodyBytes []byte
	switch b := renderedBody.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, err = json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshaling body: %w", err)
		}
	}

	fp := cache.NewFingerprint(q.Method, renderedURL, headers, string(bodyBytes))
	ttl := time.Duration(q.Cache) * time.Second

	raw, err := s.cache.GetOrFetch(ctx, fp, ttl, func(ctx context.Context) ([]byte, error) {
		return s.doHTTP(ctx, q, renderedURL, headers, bodyBytes)
	})
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return parsed, nil
}

func (s *Source) doHTTP(ctx context.Context, q QuerySpec, url string, headers map[string]string, body []byte) ([]byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	method := q.Method
	if method == "" {
		method = defaultQuerySpec.Method
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, reader)
	if err != nil {
		return nil, &TransientIOError{Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := s.client
	if q.SSLVerify != nil && !*q.SSLVerify {
		client = s.insecureClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransientIOError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientIOError{Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, &TransientIOError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return data, nil
}

func (s *Source) project(hc HookConfig, tctx render.Context, log logr.Logger) (*Result, error) {
	names := make([]string, 0, len(hc.Mapping))
	for name := range hc.Mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	res := &Result{}
	for _, name := range names {
		entry := hc.Mapping[name]

		value, err := render.RenderValue(entry.Data, tctx, true)
		if err != nil {
			if entry.Required {
				return nil, &PipelineError{Stage: "mapping", Name: name, Err: err}
			}
			log.V(1).Info("skipping optional mapping entry", "name", name, "reason", err.Error())
			continue
		}

		if name == "yiaddr" || name == "client_ip_address" {
			ip, err := coerceIP(value)
			if err != nil {
				if entry.Required {
					return nil, &PipelineError{Stage: "mapping", Name: name, Err: err}
				}
				log.V(1).Info("skipping optional mapping entry", "name", name, "reason", err.Error())
				continue
			}
			res.YourIP = ip
			continue
		}

		spec, kind, err := s.resolveSpec(name, entry)
		if err != nil {
			if entry.Required {
				return nil, &PipelineError{Stage: "mapping", Name: name, Err: err}
			}
			log.V(1).Info("skipping optional mapping entry", "name", name, "reason", err.Error())
			continue
		}

		encoded, err := option.Encode(name, kind, value)
		if err != nil {
			if entry.Required {
				return nil, &PipelineError{Stage: "mapping", Name: name, Err: err}
			}
			log.V(1).Info("skipping optional mapping entry", "name", name, "reason", err.Error())
			continue
		}
		res.Options = append(res.Options, wire.Option{Tag: spec.Tag, Value: encoded})
	}
	return res, nil
}

func (s *Source) resolveSpec(name string, entry MappingEntry) (option.Spec, option.Kind, error) {
	if entry.Tag != nil {
		if entry.Kind == nil {
			return option.Spec{}, "", fmt.Errorf("mapping %q: a tag override requires kind", name)
		}
		spec := option.Spec{Name: name, Tag: byte(*entry.Tag), Kind: option.Kind(*entry.Kind)}
		return spec, spec.Kind, nil
	}
	spec, ok := s.registry.Lookup(name)
	if !ok {
		return option.Spec{}, "", fmt.Errorf("mapping %q: not a known option name", name)
	}
	return spec, spec.Kind, nil
}

func coerceIP(v interface{}) (net.IP, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string IPv4 address, got %T", v)
	}
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", s)
	}
	return ip.To4(), nil
}
