package socketio

import (
	"net"
	"sync"
)

// defaultMaxRemote caps concurrent connections from other machines.
// Connections from the machine the daemon runs on are never counted.
const defaultMaxRemote = 8

// ConnLimiter bounds concurrent remote connections. Rather than refuse
// a newcomer when the cap is reached, it evicts the oldest remote
// connection, so the most recent listener always gets the slot. Local
// connections (127.0.0.1, ::1) bypass the cap entirely.
type ConnLimiter struct {
	mu        sync.Mutex
	maxRemote int

	// remote holds remote client IDs, oldest first.
	remote []string
	// addrs maps every admitted client ID to its address.
	addrs map[string]string
}

// NewConnLimiter creates a limiter allowing up to maxRemote concurrent
// connections.
func NewConnLimiter(maxRemote int) *ConnLimiter {
	return &ConnLimiter{
		maxRemote: maxRemote,
		addrs:     make(map[string]string),
	}
}

// Admit registers a connection and returns the ID of the remote client
// evicted to make room, or an empty string. Admit never rejects the
// incoming connection itself.
func (l *ConnLimiter) Admit(clientID, addr string) (evicted string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, known := l.addrs[clientID]; known {
		return ""
	}

	addr = normalizeAddr(addr)
	l.addrs[clientID] = addr
	if isLocalAddr(addr) {
		return ""
	}

	l.remote = append(l.remote, clientID)
	if len(l.remote) <= l.maxRemote {
		return ""
	}

	evicted = l.remote[0]
	l.remote = l.remote[1:]
	delete(l.addrs, evicted)
	return evicted
}

// Release unregisters a connection on disconnect.
func (l *ConnLimiter) Release(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	addr, known := l.addrs[clientID]
	if !known {
		return
	}
	delete(l.addrs, clientID)

	if isLocalAddr(addr) {
		return
	}
	for i, id := range l.remote {
		if id == clientID {
			l.remote = append(l.remote[:i], l.remote[i+1:]...)
			return
		}
	}
}

// normalizeAddr strips a port when the address carries one.
func normalizeAddr(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func isLocalAddr(addr string) bool {
	return addr == "127.0.0.1" || addr == "::1" || addr == "localhost"
}
