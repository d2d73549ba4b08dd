package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	protoICMP   = 1
	protoICMPv6 = 58
)

var echoPayload = []byte("injdash-probe")

// ICMPPinger sends one echo request over an unprivileged datagram ICMP socket.
// On Linux this needs net.ipv4.ping_group_range to include the process group.
type ICMPPinger struct {
	Timeout time.Duration

	seq atomic.Uint32
}

func NewICMPPinger(timeout time.Duration) *ICMPPinger {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ICMPPinger{Timeout: timeout}
}

func (p *ICMPPinger) Ping(ctx context.Context, address string) error {
	ip, err := resolve(ctx, address)
	if err != nil {
		return err
	}

	network, listen, proto := "udp4", "0.0.0.0", protoICMP
	var reqType, replyType icmp.Type = ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	if ip.To4() == nil {
		network, listen, proto = "udp6", "::", protoICMPv6
		reqType, replyType = ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
	}

	conn, err := icmp.ListenPacket(network, listen)
	if err != nil {
		return fmt.Errorf("icmp listen: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: reqType,
		Body: &icmp.Echo{ID: os.Getpid() & 0xffff, Seq: seq, Data: echoPayload},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return err
	}
	if _, err := conn.WriteTo(wb, &net.UDPAddr{IP: ip}); err != nil {
		return fmt.Errorf("icmp write: %w", err)
	}

	rb := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(rb)
		if err != nil {
			return fmt.Errorf("icmp read: %w", err)
		}
		rm, err := icmp.ParseMessage(proto, rb[:n])
		if err != nil || rm.Type != replyType {
			continue
		}
		// the kernel rewrites the echo ID on datagram sockets, so only the
		// sequence number identifies our reply
		if echo, ok := rm.Body.(*icmp.Echo); ok && echo.Seq == seq {
			return nil
		}
	}
}

func resolve(ctx context.Context, address string) (net.IP, error) {
	if ip := net.ParseIP(address); ip != nil {
		return ip, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no address for %s", address)
	}
	return addrs[0].IP, nil
}
