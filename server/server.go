// Package server implements the handler/state engine and listener pool:
// one UDP socket per configured listen address, dispatching each inbound
// packet to the matching source hook and sending the reply to the
// destination RFC 2131 §4.1 requires. Grounded on jacobweinstock/dhcp's
// dhcp.go (Server, ListenAndServe, handleFunc/message-type switch), scaled
// from one listener to a pool and from one hardcoded backend to a
// pluggable Source.
package server

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/northfield-labs/dhcpd/source/rest"
	"github.com/northfield-labs/dhcpd/wire"
)

// Source is anything that can resolve a DHCP message-type hook into a
// reply contribution. rest.Source is the only implementation today, but
// the interface keeps the handler decoupled from it.
type Source interface {
	Resolve(ctx context.Context, hook rest.Hook, pkt *wire.Message, serverIP net.IP) (*rest.Result, error)
}

// Server owns the listener pool and dispatches inbound packets to Source.
type Server struct {
	Log    logr.Logger
	Source Source
	Port   uint16
	Listen []string
}

// ListenAndServe binds one UDP socket per configured listen address and
// serves until ctx is canceled or any listener returns a fatal error.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if len(s.Listen) == 0 {
		s.Listen = []string{"0.0.0.0"}
	}
	port := s.Port
	if port == 0 {
		port = 67
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, addr := range s.Listen {
		addr := addr
		conn, err := s.listen(addr, port)
		if err != nil {
			return fmt.Errorf("server: listening on %s:%d: %w", addr, port, err)
		}
		s.Log.Info("listening", "address", addr, "port", port)

		g.Go(func() error {
			return s.serve(gctx, conn)
		})
		g.Go(func() error {
			<-gctx.Done()
			return conn.Close()
		})
	}
	return g.Wait()
}

func (s *Server) listen(addr string, port uint16) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: controlSocketOptions}
	return lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort(addr, strconv.Itoa(int(port))))
}

func (s *Server) serve(ctx context.Context, conn net.PacketConn) error {
	buf := make([]byte, 1500)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.Log.Error(err, "read failed")
			continue
		}

		pkt, err := wire.Decode(buf[:n])
		if err != nil {
			s.Log.V(1).Info("dropping unparseable packet", "peer", peer, "reason", err.Error())
			continue
		}

		go s.handle(ctx, conn, peer, pkt)
	}
}

func (s *Server) handle(ctx context.Context, conn net.PacketConn, peer net.Addr, pkt *wire.Message) {
	serverIP := localIP(conn)

	hook, replyType, expectReply := dispatch(pkt.MessageType())
	log := s.Log.WithValues("mac", pkt.CHAddr.String(), "message_type", pkt.MessageType())

	if !expectReply {
		if hook != "" {
			if _, err := s.Source.Resolve(ctx, hook, pkt, serverIP); err != nil {
				log.Error(err, "hook failed")
			}
		}
		return
	}

	res, err := s.Source.Resolve(ctx, hook, pkt, serverIP)
	reply := newReply(pkt, serverIP)
	reply.SetOption(wire.TagServerIdentifier, serverIP.To4())
	if err != nil {
		log.Error(err, "hook failed, sending NAK")
		reply.SetOption(wire.TagMessageType, []byte{typeNAK})
	} else {
		reply.SetOption(wire.TagMessageType, []byte{replyType})
		if res.YourIP != nil {
			reply.YIAddr = res.YourIP
		}
		for _, opt := range res.Options {
			reply.SetOption(opt.Tag, opt.Value)
		}
	}

	dest := replyDestination(pkt, peer)
	if _, err := conn.WriteTo(reply.Encode(), dest); err != nil {
		log.Error(err, "write failed", "dest", dest)
	}
}

// Message type constants (option 53 values), RFC 2132 §9.6.
const (
	typeDiscover = 1
	typeOffer    = 2
	typeRequest  = 3
	typeDecline  = 4
	typeACK      = 5
	typeNAK      = 6
	typeRelease  = 7
	typeInform   = 8
)

// dispatch maps an inbound message type to the hook to resolve, the reply
// message type to send on success, and whether a reply is expected at all.
func dispatch(msgType byte) (hook rest.Hook, replyType byte, expectReply bool) {
	switch msgType {
	case typeDiscover:
		return rest.HookOffer, typeOffer, true
	case typeRequest:
		return rest.HookReserve, typeACK, true
	case typeInform:
		return rest.HookInform, typeACK, true
	case typeDecline:
		return rest.HookDecline, 0, false
	case typeRelease:
		return rest.HookRelease, 0, false
	default:
		return "", 0, false
	}
}

// newReply builds the BOOTREPLY skeleton inherited from the request, per
// RFC 2131 §4.1: op, xid, flags, giaddr and chaddr come from the request
// unchanged.
func newReply(req *wire.Message, serverIP net.IP) *wire.Message {
	return &wire.Message{
		Op:     wire.OpReply,
		HType:  req.HType,
		HLen:   req.HLen,
		XID:    req.XID,
		Flags:  req.Flags,
		CIAddr: net.IPv4zero,
		YIAddr: net.IPv4zero,
		SIAddr: serverIP,
		GIAddr: req.GIAddr,
		CHAddr: req.CHAddr,
	}
}

// replyDestination implements RFC 2131 §4.1's reply-destination rules: a
// relayed request (non-zero giaddr) goes back to the relay agent on port
// 67; otherwise a client with a usable ciaddr gets a unicast reply, and a
// client with none (or the broadcast flag set) gets the limited broadcast
// address on port 68.
func replyDestination(req *wire.Message, peer net.Addr) net.Addr {
	if !req.GIAddr.IsUnspecified() {
		return &net.UDPAddr{IP: req.GIAddr, Port: 67}
	}
	if !req.CIAddr.IsUnspecified() && !req.Broadcast() {
		return &net.UDPAddr{IP: req.CIAddr, Port: 68}
	}
	return &net.UDPAddr{IP: net.IPv4bcast, Port: 68}
}

func localIP(conn net.PacketConn) net.IP {
	if udp, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return udp.IP
	}
	return net.IPv4zero
}
