package wire

import (
	"bytes"
	"net"
	"testing"
)

func sampleMessage() *Message {
	mac, _ := net.ParseMAC("08:00:27:29:4e:67")
	m := &Message{
		Op:     OpRequest,
		HType:  1,
		HLen:   6,
		XID:    0xdeadbeef,
		Flags:  FlagBroadcast,
		CIAddr: net.IPv4zero,
		YIAddr: net.IPv4zero,
		SIAddr: net.IPv4zero,
		GIAddr: net.IPv4zero,
		CHAddr: mac,
	}
	m.SetOption(TagMessageType, []byte{1})
	m.SetOption(12, []byte("pxe-test"))
	return m
}

func TestRoundTrip(t *testing.T) {
	m := sampleMessage()
	b := m.Encode()

	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.XID != m.XID || got.Flags != m.Flags || !bytes.Equal(got.CHAddr, m.CHAddr) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, m)
	}
	if got.MessageType() != 1 {
		t.Fatalf("expected message type 1, got %d", got.MessageType())
	}
	v, ok := got.GetOption(12)
	if !ok || string(v) != "pxe-test" {
		t.Fatalf("expected option 12 = pxe-test, got %q (ok=%v)", v, ok)
	}
}

func TestEncodeMinimumLength(t *testing.T) {
	m := &Message{Op: OpReply}
	b := m.Encode()
	if len(b) < minPacketSize {
		t.Fatalf("encoded packet shorter than minimum: %d", len(b))
	}
}

func TestMagicCookieOffset(t *testing.T) {
	m := sampleMessage()
	b := m.Encode()
	if !bytes.Equal(b[headerSize:headerSize+cookieSize], magicCookie[:]) {
		t.Fatalf("magic cookie not at offset %d", headerSize)
	}
}

func TestMessageTypeOrderedFirst(t *testing.T) {
	m := sampleMessage()
	m.SetOption(TagServerIdentifier, []byte{10, 0, 0, 1})
	m.SetOption(99, []byte{1})
	b := m.Encode()

	opts := b[headerSize+cookieSize:]
	if opts[0] != TagMessageType {
		t.Fatalf("expected message type option first, got tag %d", opts[0])
	}
	// second TLV starts right after tag(1)+len(1)+value(len)
	next := 2 + int(opts[1])
	if opts[next] != TagServerIdentifier {
		t.Fatalf("expected server identifier option second, got tag %d", opts[next])
	}
}

func TestDecodeTooShort(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err != ErrTooShort {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	b := sampleMessage().Encode()
	b[headerSize] = 0
	if _, err := Decode(b); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecodeNoEnd(t *testing.T) {
	m := sampleMessage()
	b := m.Encode()
	// Overwrite the end marker (255) with padding so no end is ever seen.
	for i := headerSize + cookieSize; i < len(b); i++ {
		if b[i] == OptionEnd {
			b[i] = OptionPad
		}
	}
	if _, err := Decode(b); err != ErrNoEnd {
		t.Fatalf("expected ErrNoEnd, got %v", err)
	}
}

func TestLongOptionSplitAndJoin(t *testing.T) {
	m := sampleMessage()
	long := bytes.Repeat([]byte{0x42}, 600)
	m.SetOption(43, long)

	b := m.Encode()
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v, ok := got.GetOption(43)
	if !ok {
		t.Fatalf("expected option 43 present")
	}
	if !bytes.Equal(v, long) {
		t.Fatalf("long option not reassembled correctly: got %d bytes, want %d", len(v), len(long))
	}

	// Confirm it was actually split into multiple 255-byte-max TLVs on the wire.
	count := 0
	for i := headerSize + cookieSize; i < len(b); {
		tag := b[i]
		if tag == OptionEnd {
			break
		}
		if tag == OptionPad {
			i++
			continue
		}
		length := int(b[i+1])
		if tag == 43 {
			count++
			if length > 255 {
				t.Fatalf("split TLV exceeds 255 bytes: %d", length)
			}
		}
		i += 2 + length
	}
	if count < 3 {
		t.Fatalf("expected option 43 split across multiple TLVs, got %d", count)
	}
}
