// Package option maps human-readable DHCP option names to wire tags and
// encodes/decodes values between Go-native types and option bytes. The
// named-option table is grounded on pyke369/pdhcp's V4OPTIONS table,
// translated to snake_case and to the encoding-kind taxonomy this server
// uses.
package option

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pyke369/golang-support/rcache"
)

// Kind is the wire encoding used for a named option's value.
type Kind string

const (
	KindIPv4     Kind = "ipv4"
	KindIPv4List Kind = "ipv4_list"
	KindString   Kind = "string"
	KindU8       Kind = "u8"
	KindU16      Kind = "u16"
	KindU32      Kind = "u32"
	KindBool     Kind = "bool"
	KindBytes    Kind = "bytes"
)

// Spec is one entry of the option registry: a name, its numeric tag, and
// how its value is encoded on the wire.
type Spec struct {
	Name string
	Tag  byte
	Kind Kind
}

// Registry is a bidirectional name/tag lookup table, seeded with the full
// named-option set and open to custom registrations for unlisted tags.
type Registry struct {
	byName map[string]Spec
	byTag  map[byte]Spec
}

// NewRegistry returns a Registry pre-populated with the standard DHCP
// option set.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Spec{}, byTag: map[byte]Spec{}}
	for _, s := range standardOptions {
		r.byName[s.Name] = s
		r.byTag[s.Tag] = s
	}
	return r
}

// Register adds or overrides an entry, for config-declared custom options
// outside the standard table.
func (r *Registry) Register(s Spec) error {
	if s.Tag == 0 || s.Tag == 255 {
		return fmt.Errorf("option %q: tag %d is reserved", s.Name, s.Tag)
	}
	r.byName[s.Name] = s
	r.byTag[s.Tag] = s
	return nil
}

func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.byName[name]
	return s, ok
}

func (r *Registry) LookupTag(tag byte) (Spec, bool) {
	s, ok := r.byTag[tag]
	return s, ok
}

// EncodeError is returned when a resolved value cannot be coerced into the
// wire encoding its Kind requires.
type EncodeError struct {
	Name   string
	Kind   Kind
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("option %q (%s): %s", e.Name, e.Kind, e.Reason)
}

// Encode coerces a resolved template value into wire bytes for the given
// Kind.
func Encode(name string, kind Kind, value interface{}) ([]byte, error) {
	switch kind {
	case KindIPv4:
		ip, err := coerceIPv4(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		return ip, nil

	case KindIPv4List:
		items, err := coerceList(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		if len(items) == 0 {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: "must be non-empty"}
		}
		var buf []byte
		for _, it := range items {
			ip, err := coerceIPv4(it)
			if err != nil {
				return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
			}
			buf = append(buf, ip...)
		}
		return buf, nil

	case KindString:
		return []byte(fmt.Sprint(value)), nil

	case KindU8:
		n, err := coerceInt(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		return []byte{byte(n)}, nil

	case KindU16:
		n, err := coerceInt(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(n))
		return buf, nil

	case KindU32:
		n, err := coerceInt(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(n))
		return buf, nil

	case KindBool:
		b, err := coerceBool(value)
		if err != nil {
			return nil, &EncodeError{Name: name, Kind: kind, Reason: err.Error()}
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case KindBytes:
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		default:
			return nil, &EncodeError{Name: name, Kind: kind, Reason: fmt.Sprintf("cannot coerce %T to bytes", value)}
		}
	}
	return nil, &EncodeError{Name: name, Kind: kind, Reason: "unknown kind"}
}

var hexMACPattern = `^[0-9a-fA-F]{2}(:[0-9a-fA-F]{2}){5}$`

// LooksLikeMAC reports whether s is a colon-separated MAC-48 address,
// using a cached compiled pattern rather than recompiling per call.
func LooksLikeMAC(s string) bool {
	return rcache.Get(hexMACPattern).MatchString(s)
}

func coerceIPv4(value interface{}) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		if ip, ok := value.(net.IP); ok {
			if v4 := ip.To4(); v4 != nil {
				return v4, nil
			}
			return nil, fmt.Errorf("not an IPv4 address")
		}
		return nil, fmt.Errorf("cannot coerce %T to ipv4", value)
	}
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", s)
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil, fmt.Errorf("%q is not an IPv4 address", s)
	}
	return v4, nil
}

func coerceList(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		return v, nil
	case string:
		return []interface{}{v}, nil
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to a list", value)
	}
}

func coerceInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to an integer", value)
	}
}

func coerceBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no", "":
			return false, nil
		}
		return false, fmt.Errorf("invalid bool %q", v)
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot coerce %T to a bool", value)
	}
}
