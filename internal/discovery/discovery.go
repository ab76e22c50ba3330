package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"time"
)

// Magic is the fixed probe clients broadcast to find hosts on the LAN.
const Magic = "TTT_DISCOVER_V1"

const maxDatagramSize = 1024

// Announcement is the fixed reply contract for a discovery probe.
type Announcement struct {
	Service     string `json:"service"`
	Proto       int    `json:"proto"`
	Name        string `json:"name"`
	Port        int    `json:"port"`
	PinRequired bool   `json:"pin_required"`
}

// Responder answers discovery probes for one game server. It runs on its own
// socket and never touches the TCP session path.
type Responder struct {
	logger       *slog.Logger
	announcement Announcement
}

func NewResponder(logger *slog.Logger, name string, gamePort int, pinRequired bool) *Responder {
	return &Responder{
		logger: logger.With("component", "discovery"),
		announcement: Announcement{
			Service:     "tictactoe",
			Proto:       1,
			Name:        name,
			Port:        gamePort,
			PinRequired: pinRequired,
		},
	}
}

// Start - binds the UDP port and serves probes until the context is cancelled.
func (that *Responder) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	conn, err := lc.ListenPacket(ctx, "udp4", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to bind discovery port %s: %w", port, err)
	}

	return that.Serve(ctx, conn)
}

// Serve - answers probes on an existing packet socket. Datagrams that are not
// the magic probe are ignored.
func (that *Responder) Serve(ctx context.Context, conn net.PacketConn) error {
	log := that.logger.With("method", "Serve")
	log.Info("discovery responder listening", "addr", conn.LocalAddr().String())

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	payload, err := json.Marshal(that.announcement)
	if err != nil {
		return fmt.Errorf("failed to marshal announcement: %w", err)
	}

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read datagram: %w", err)
		}

		if !bytes.Equal(bytes.TrimSpace(buf[:n]), []byte(Magic)) {
			continue
		}

		if _, err = conn.WriteTo(payload, addr); err != nil {
			log.Debug("failed to answer probe", "remote", addr.String(), "error", err)
		}
	}
}

// Host is one discovered game server.
type Host struct {
	IP          string
	Port        int
	Name        string
	PinRequired bool
}

// Discover - broadcasts a probe and collects replies until the timeout
// window closes. Results are deduplicated and sorted by ip:port.
func Discover(timeout time.Duration, port int) ([]Host, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery socket: %w", err)
	}
	defer conn.Close()

	probe := []byte(Magic)
	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: port}
	if _, err = conn.WriteTo(probe, broadcast); err != nil {
		return nil, fmt.Errorf("failed to send probe: %w", err)
	}

	deadline := time.Now().Add(timeout)
	_ = conn.SetReadDeadline(deadline)

	seen := make(map[string]struct{})
	hosts := make([]Host, 0)

	buf := make([]byte, maxDatagramSize)
	for time.Now().Before(deadline) {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			break
		}

		var reply Announcement
		if err = json.Unmarshal(buf[:n], &reply); err != nil {
			continue
		}

		if reply.Service != "tictactoe" || reply.Port <= 0 {
			continue
		}

		if reply.Name == "" {
			reply.Name = "Host"
		}

		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}

		host := Host{
			IP:          udpAddr.IP.String(),
			Port:        reply.Port,
			Name:        reply.Name,
			PinRequired: reply.PinRequired,
		}

		key := fmt.Sprintf("%s:%d", host.IP, host.Port)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		hosts = append(hosts, host)
	}

	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].IP != hosts[j].IP {
			return hosts[i].IP < hosts[j].IP
		}
		return hosts[i].Port < hosts[j].Port
	})

	return hosts, nil
}
