package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/log"
)

// DefaultDialTimeout bounds Dial when ctx has no deadline.
const DefaultDialTimeout = 10 * time.Second

// Dial connects to a hub emulator listening on address and returns the
// host side of the link. Register callbacks, then call Start.
func Dial(ctx context.Context, address string, config StreamConfig) (*StreamLink, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	config.Role = log.RoleHost
	if config.RemoteAddr == "" {
		config.RemoteAddr = conn.RemoteAddr().String()
	}
	return NewStreamLink(conn, config), nil
}
