// Package wire implements the DHCPv4 byte-layout codec: a from-scratch
// encoder/decoder against the RFC 2131/2132 wire format, independent of any
// third-party DHCP library.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"
)

const (
	headerSize    = 236 // op..file, before the magic cookie
	cookieSize    = 4
	minPacketSize = 300

	OptionPad = 0
	OptionEnd = 255

	// TagMessageType and TagServerIdentifier get first and second
	// encoding priority respectively; see Message.Encode.
	TagMessageType      = 53
	TagServerIdentifier = 54
)

var magicCookie = [cookieSize]byte{99, 130, 83, 99}

// OpCode is the BOOTP op field: request from a client, reply from a server.
type OpCode byte

const (
	OpRequest OpCode = 1
	OpReply   OpCode = 2
)

const (
	FlagBroadcast uint16 = 0x8000
)

var (
	ErrTooShort        = errors.New("wire: packet shorter than the BOOTP header and magic cookie")
	ErrBadMagic        = errors.New("wire: magic cookie mismatch")
	ErrTruncatedOption = errors.New("wire: option length exceeds remaining packet bytes")
	ErrNoEnd           = errors.New("wire: option area has no end (255) marker")
)

// Option is a single decoded, RFC 3396-reassembled TLV option.
type Option struct {
	Tag   byte
	Value []byte
}

// Message is a parsed DHCPv4 packet: the fixed BOOTP header plus a
// reassembled, order-preserving option list.
type Message struct {
	Op     OpCode
	HType  byte
	HLen   byte
	Hops   byte
	XID    uint32
	Secs   uint16
	Flags  uint16
	CIAddr net.IP
	YIAddr net.IP
	SIAddr net.IP
	GIAddr net.IP
	CHAddr net.HardwareAddr
	SName  string
	File   string

	// Options preserves first-occurrence order as seen on the wire
	// (after RFC 3396 reassembly of any split option).
	Options []Option
}

// Broadcast reports whether the client set the broadcast flag (RFC 2131
// §4.1): replies to such clients must be sent to the limited broadcast
// address rather than unicast to ciaddr/yiaddr.
func (m *Message) Broadcast() bool {
	return m.Flags&FlagBroadcast != 0
}

// GetOption returns the reassembled value for tag, and whether it was
// present.
func (m *Message) GetOption(tag byte) ([]byte, bool) {
	for _, o := range m.Options {
		if o.Tag == tag {
			return o.Value, true
		}
	}
	return nil, false
}

// SetOption appends or replaces the option with the given tag, preserving
// its original position in the slice when replacing.
func (m *Message) SetOption(tag byte, value []byte) {
	for i, o := range m.Options {
		if o.Tag == tag {
			m.Options[i].Value = value
			return
		}
	}
	m.Options = append(m.Options, Option{Tag: tag, Value: value})
}

// MessageType returns the value of option 53, or 0 if absent.
func (m *Message) MessageType() byte {
	if v, ok := m.GetOption(TagMessageType); ok && len(v) == 1 {
		return v[0]
	}
	return 0
}

// Decode parses a raw UDP payload into a Message.
func Decode(b []byte) (*Message, error) {
	if len(b) < headerSize+cookieSize {
		return nil, ErrTooShort
	}
	if !bytes.Equal(b[headerSize:headerSize+cookieSize], magicCookie[:]) {
		return nil, ErrBadMagic
	}

	m := &Message{
		Op:    OpCode(b[0]),
		HType: b[1],
		HLen:  b[2],
		Hops:  b[3],
		XID:   binary.BigEndian.Uint32(b[4:8]),
		Secs:  binary.BigEndian.Uint16(b[8:10]),
		Flags: binary.BigEndian.Uint16(b[10:12]),
	}
	m.CIAddr = append(net.IP{}, b[12:16]...)
	m.YIAddr = append(net.IP{}, b[16:20]...)
	m.SIAddr = append(net.IP{}, b[20:24]...)
	m.GIAddr = append(net.IP{}, b[24:28]...)

	hlen := int(m.HLen)
	if hlen > 16 {
		hlen = 16
	}
	m.CHAddr = append(net.HardwareAddr{}, b[28:28+hlen]...)
	m.SName = trimZero(b[44:108])
	m.File = trimZero(b[108:236])

	opts, err := decodeOptions(b[headerSize+cookieSize:])
	if err != nil {
		return nil, err
	}
	m.Options = opts
	return m, nil
}

func decodeOptions(b []byte) ([]Option, error) {
	var order []byte
	values := map[byte][]byte{}
	seenEnd := false

	i := 0
	for i < len(b) {
		tag := b[i]
		if tag == OptionPad {
			i++
			continue
		}
		if tag == OptionEnd {
			seenEnd = true
			break
		}
		if i+1 >= len(b) {
			return nil, ErrTruncatedOption
		}
		length := int(b[i+1])
		if i+2+length > len(b) {
			return nil, ErrTruncatedOption
		}
		val := b[i+2 : i+2+length]
		if _, ok := values[tag]; !ok {
			order = append(order, tag)
			values[tag] = append([]byte{}, val...)
		} else {
			values[tag] = append(values[tag], val...)
		}
		i += 2 + length
	}
	if !seenEnd {
		return nil, ErrNoEnd
	}

	opts := make([]Option, 0, len(order))
	for _, t := range order {
		opts = append(opts, Option{Tag: t, Value: values[t]})
	}
	return opts, nil
}

// Encode serializes the message per RFC 2131/2132: fixed header, magic
// cookie, options in priority order (message type first, server identifier
// second, everything else in the order it appears in m.Options), end
// marker, padded to the 300-byte minimum.
func (m *Message) Encode() []byte {
	buf := make([]byte, 0, minPacketSize)
	buf = append(buf, byte(m.Op), m.HType, m.HLen, m.Hops)

	var xid, secsFlags [4]byte
	binary.BigEndian.PutUint32(xid[:], m.XID)
	buf = append(buf, xid[:]...)
	binary.BigEndian.PutUint16(secsFlags[0:2], m.Secs)
	binary.BigEndian.PutUint16(secsFlags[2:4], m.Flags)
	buf = append(buf, secsFlags[:]...)

	buf = append(buf, ipTo4(m.CIAddr)...)
	buf = append(buf, ipTo4(m.YIAddr)...)
	buf = append(buf, ipTo4(m.SIAddr)...)
	buf = append(buf, ipTo4(m.GIAddr)...)

	var chaddr [16]byte
	copy(chaddr[:], m.CHAddr)
	buf = append(buf, chaddr[:]...)

	buf = append(buf, zeroPad(m.SName, 64)...)
	buf = append(buf, zeroPad(m.File, 128)...)

	buf = append(buf, magicCookie[:]...)
	buf = append(buf, encodeOptions(m.Options)...)

	for len(buf) < minPacketSize {
		buf = append(buf, 0)
	}
	return buf
}

func encodeOptions(opts []Option) []byte {
	var first, second []Option
	var rest []Option
	for _, o := range opts {
		switch o.Tag {
		case TagMessageType:
			first = append(first, o)
		case TagServerIdentifier:
			second = append(second, o)
		default:
			rest = append(rest, o)
		}
	}

	var buf []byte
	for _, group := range [][]Option{first, second, rest} {
		for _, o := range group {
			buf = append(buf, encodeOption(o)...)
		}
	}
	buf = append(buf, OptionEnd)
	return buf
}

// encodeOption splits values longer than 255 bytes across repeated
// same-tag TLVs per RFC 3396.
func encodeOption(o Option) []byte {
	if len(o.Value) == 0 {
		return []byte{o.Tag, 0}
	}
	var buf []byte
	v := o.Value
	for len(v) > 0 {
		n := len(v)
		if n > 255 {
			n = 255
		}
		buf = append(buf, o.Tag, byte(n))
		buf = append(buf, v[:n]...)
		v = v[n:]
	}
	return buf
}

func trimZero(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		i = len(b)
	}
	return string(b[:i])
}

func zeroPad(s string, n int) []byte {
	buf := make([]byte, n)
	copy(buf, s)
	return buf
}

func ipTo4(ip net.IP) []byte {
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return []byte{0, 0, 0, 0}
}
