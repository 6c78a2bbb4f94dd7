package server

import (
	"context"
	"net"
	"testing"

	"github.com/go-logr/logr"

	"github.com/northfield-labs/dhcpd/source/rest"
	"github.com/northfield-labs/dhcpd/wire"
)

func discardLogger() logr.Logger { return logr.Discard() }

// stubSource resolves every hook to an empty result, just enough to drive
// handle's reply-construction path without a real rest.Source.
type stubSource struct{}

func (stubSource) Resolve(_ context.Context, _ rest.Hook, _ *wire.Message, _ net.IP) (*rest.Result, error) {
	return &rest.Result{}, nil
}

// stubPacketConn records what handle writes back, reporting localAddr as
// its configured server IP.
type stubPacketConn struct {
	net.PacketConn
	local net.IP
	sent  [][]byte
}

func newStubPacketConn(local net.IP) *stubPacketConn {
	return &stubPacketConn{local: local}
}

func (c *stubPacketConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: c.local, Port: 67}
}

func (c *stubPacketConn) WriteTo(b []byte, _ net.Addr) (int, error) {
	c.sent = append(c.sent, append([]byte{}, b...))
	return len(b), nil
}

func TestDispatchDiscover(t *testing.T) {
	hook, replyType, expect := dispatch(typeDiscover)
	if !expect || replyType != typeOffer || string(hook) != "offer" {
		t.Fatalf("got hook=%q replyType=%d expect=%v", hook, replyType, expect)
	}
}

func TestDispatchDeclineHasNoReply(t *testing.T) {
	hook, _, expect := dispatch(typeDecline)
	if expect {
		t.Fatalf("expected decline to produce no reply")
	}
	if string(hook) != "decline" {
		t.Fatalf("expected decline hook to still run, got %q", hook)
	}
}

func TestReplyDestinationRelayed(t *testing.T) {
	req := &wire.Message{GIAddr: net.IPv4(10, 0, 0, 5), CIAddr: net.IPv4zero}
	dest := replyDestination(req, &net.UDPAddr{IP: net.IPv4(10, 0, 0, 100), Port: 68})
	udp := dest.(*net.UDPAddr)
	if !udp.IP.Equal(net.IPv4(10, 0, 0, 5)) || udp.Port != 67 {
		t.Fatalf("expected relay destination, got %v", dest)
	}
}

func TestReplyDestinationUnicastToCIAddr(t *testing.T) {
	req := &wire.Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4(10, 0, 0, 50)}
	dest := replyDestination(req, &net.UDPAddr{IP: net.IPv4(10, 0, 0, 100), Port: 68})
	udp := dest.(*net.UDPAddr)
	if !udp.IP.Equal(net.IPv4(10, 0, 0, 50)) || udp.Port != 68 {
		t.Fatalf("expected unicast to ciaddr, got %v", dest)
	}
}

func TestReplyDestinationBroadcastWhenNoCIAddr(t *testing.T) {
	req := &wire.Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4zero}
	dest := replyDestination(req, &net.UDPAddr{IP: net.IPv4(10, 0, 0, 100), Port: 68})
	udp := dest.(*net.UDPAddr)
	if !udp.IP.Equal(net.IPv4bcast) {
		t.Fatalf("expected broadcast destination, got %v", dest)
	}
}

func TestReplyDestinationBroadcastWhenFlagSet(t *testing.T) {
	req := &wire.Message{GIAddr: net.IPv4zero, CIAddr: net.IPv4(10, 0, 0, 50), Flags: wire.FlagBroadcast}
	dest := replyDestination(req, &net.UDPAddr{IP: net.IPv4(10, 0, 0, 100), Port: 68})
	udp := dest.(*net.UDPAddr)
	if !udp.IP.Equal(net.IPv4bcast) {
		t.Fatalf("expected broadcast destination when flag set, got %v", dest)
	}
}

func TestHandleAlwaysSetsServerIdentifier(t *testing.T) {
	mac, _ := net.ParseMAC("08:00:27:29:4e:67")
	req := &wire.Message{CHAddr: mac, CIAddr: net.IPv4zero, GIAddr: net.IPv4zero}
	req.SetOption(wire.TagMessageType, []byte{typeDiscover})

	srv := &Server{Log: discardLogger(), Source: stubSource{}}
	conn := newStubPacketConn(net.IPv4(10, 0, 0, 1))
	peer := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 50), Port: 68}

	srv.handle(context.Background(), conn, peer, req)

	if len(conn.sent) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(conn.sent))
	}
	reply, err := wire.Decode(conn.sent[0])
	if err != nil {
		t.Fatalf("decoding sent reply: %v", err)
	}
	v, ok := reply.GetOption(wire.TagServerIdentifier)
	if !ok {
		t.Fatalf("expected option 54 to be present on the reply")
	}
	if net.IP(v).String() != "10.0.0.1" {
		t.Fatalf("expected option 54 to equal siaddr 10.0.0.1, got %v", net.IP(v))
	}
}

func TestNewReplyInheritsRequestFields(t *testing.T) {
	mac, _ := net.ParseMAC("08:00:27:29:4e:67")
	req := &wire.Message{XID: 42, Flags: wire.FlagBroadcast, GIAddr: net.IPv4zero, CHAddr: mac}
	reply := newReply(req, net.IPv4(10, 0, 0, 1))
	if reply.XID != 42 || reply.Flags != wire.FlagBroadcast || reply.CHAddr.String() != mac.String() {
		t.Fatalf("reply did not inherit request fields: %+v", reply)
	}
	if reply.Op != wire.OpReply {
		t.Fatalf("expected op=reply, got %v", reply.Op)
	}
}
