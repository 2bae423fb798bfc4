// internal/link/bridge/client.go

// Package bridge talks to the link daemon that owns the master's serial
// port. Requests carry a command name and JSON fields; the daemon does the
// master framing and serializes access to the physical link.
package bridge

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
)

const (
	magicHi byte = 0x4D // 'M'
	magicLo byte = 0x4C // 'L'

	versionV1 byte = 0x01

	statusOK          byte = 0x00
	statusRejected    byte = 0x01
	statusMaintenance byte = 0x02
	statusTimeout     byte = 0x03

	maxBody = 1 << 20
)

// Config configures a Client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client is a stateless request/response client, one connection per call.
type Client struct {
	endpoint string
	timeout  time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("bridge: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &Client{endpoint: cfg.Endpoint, timeout: cfg.Timeout}, nil
}

type request struct {
	Cmd    master.Command `json:"cmd"`
	Fields master.Fields  `json:"fields"`
}

type rejection struct {
	Error string `json:"error"`
}

// Do implements master.Executor.
func (c *Client) Do(ctx context.Context, cmd master.Command, fields master.Fields) (master.Fields, error) {
	if fields == nil {
		fields = master.Fields{}
	}
	body, err := json.Marshal(request{Cmd: cmd, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("bridge: %s: encode: %w", cmd, err)
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("bridge: %s: dial: %w", cmd, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	if err := writeAll(conn, buildRequestV1(body)); err != nil {
		return nil, wrapIO(cmd, "write", err)
	}

	status, resp, err := readResponse(conn)
	if err != nil {
		return nil, wrapIO(cmd, "read", err)
	}

	switch status {
	case statusOK:
		var out master.Fields
		if err := json.Unmarshal(resp, &out); err != nil {
			return nil, fmt.Errorf("bridge: %s: decode: %w", cmd, err)
		}
		return out, nil
	case statusMaintenance:
		return nil, fmt.Errorf("bridge: %s: %w", cmd, master.ErrMaintenanceMode)
	case statusTimeout:
		return nil, fmt.Errorf("bridge: %s: %w", cmd, master.ErrLinkTimeout)
	case statusRejected:
		var rej rejection
		_ = json.Unmarshal(resp, &rej)
		if rej.Error == "" {
			rej.Error = "no reason given"
		}
		return nil, fmt.Errorf("bridge: %s: rejected: %s", cmd, rej.Error)
	default:
		return nil, fmt.Errorf("bridge: %s: unknown status 0x%02x", cmd, status)
	}
}

// wrapIO maps socket deadlines onto master.ErrLinkTimeout.
func wrapIO(cmd master.Command, op string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("bridge: %s: %s: %w (%v)", cmd, op, master.ErrLinkTimeout, err)
	}
	return fmt.Errorf("bridge: %s: %s: %w", cmd, op, err)
}

//
// ---- envelope v1 ----
//
// Request:  "ML" | version | len:u32 BE | JSON {cmd, fields}
// Response: status | len:u32 BE | JSON
//

func buildRequestV1(body []byte) []byte {
	pkt := make([]byte, 7, 7+len(body))
	pkt[0] = magicHi
	pkt[1] = magicLo
	pkt[2] = versionV1
	binary.BigEndian.PutUint32(pkt[3:7], uint32(len(body)))
	return append(pkt, body...)
}

func readResponse(r io.Reader) (byte, []byte, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	n := binary.BigEndian.Uint32(hdr[1:5])
	if n > maxBody {
		return 0, nil, fmt.Errorf("response body too large (%d bytes)", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return hdr[0], body, nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

var _ master.Executor = (*Client)(nil)
