// Package socketio provides the Socket.io server for client communication.
package socketio

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/Vinoth-46/isai-backend/internal/domain/history"
	"github.com/Vinoth-46/isai-backend/internal/domain/library"
	"github.com/Vinoth-46/isai-backend/internal/domain/player"
	"github.com/Vinoth-46/isai-backend/internal/domain/playlist"
	"github.com/Vinoth-46/isai-backend/internal/domain/theme"
)

// broadcastWindow collapses bursts of controller snapshots into single
// broadcasts.
const broadcastWindow = 100 * time.Millisecond

// Rescanner triggers a catalog rebuild.
type Rescanner interface {
	Rescan()
}

// Server handles Socket.io connections and events.
type Server struct {
	io         *socket.Server
	controller *player.Controller
	library    *library.Service
	history    *history.Tracker
	playlists  *playlist.Manager
	theme      *theme.Store
	rescanner  Rescanner
	debouncer  *BroadcastDebouncer
	limiter    *ConnLimiter

	mu      sync.RWMutex
	clients map[string]*socket.Socket
}

// NewServer creates a new Socket.io server wired to the domain
// services.
func NewServer(
	controller *player.Controller,
	lib *library.Service,
	hist *history.Tracker,
	playlists *playlist.Manager,
	themes *theme.Store,
	rescanner Rescanner,
) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(20 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	s := &Server{
		io:         socket.NewServer(nil, opts),
		controller: controller,
		library:    lib,
		history:    hist,
		playlists:  playlists,
		theme:      themes,
		rescanner:  rescanner,
		limiter:    NewConnLimiter(defaultMaxRemote),
		clients:    make(map[string]*socket.Socket),
	}
	s.debouncer = NewBroadcastDebouncer(broadcastWindow, s.BroadcastState, s.BroadcastLibrary)

	s.setupHandlers()
	controller.Subscribe(func(player.Snapshot) {
		s.debouncer.Trigger(KindState)
	})

	return s
}

// setupHandlers registers all Socket.io event handlers.
func (s *Server) setupHandlers() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		clientID := string(client.Id())

		addr := clientAddress(client)
		log.Info().Str("id", clientID).Str("addr", addr).Msg("Client connected")

		s.mu.Lock()
		s.clients[clientID] = client
		s.mu.Unlock()

		if evicted := s.limiter.Admit(clientID, addr); evicted != "" {
			s.mu.RLock()
			old := s.clients[evicted]
			s.mu.RUnlock()
			if old != nil {
				log.Info().Str("id", evicted).Msg("Evicting oldest remote client")
				old.Disconnect(true)
			}
		}

		go func() {
			time.Sleep(100 * time.Millisecond)
			s.pushState(client)
			s.pushTheme(client)
		}()

		client.On("disconnect", func(args ...any) {
			reason := ""
			if len(args) > 0 {
				if r, ok := args[0].(string); ok {
					reason = r
				}
			}
			log.Info().Str("id", clientID).Str("reason", reason).Msg("Client disconnected")

			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
			s.limiter.Release(clientID)
		})

		s.registerPlayerHandlers(client, clientID)
		s.registerLibraryHandlers(client, clientID)
		s.registerPlaylistHandlers(client, clientID)
		s.registerHistoryHandlers(client, clientID)
		s.registerThemeHandlers(client, clientID)
	})
}

// clientAddress reports the remote address the handshake saw.
func clientAddress(client *socket.Socket) string {
	hs := client.Handshake()
	if hs == nil {
		return ""
	}
	return hs.Address
}

// pushState sends the current playback state to a client.
func (s *Server) pushState(client *socket.Socket) {
	client.Emit("pushState", s.controller.Snapshot())
}

// pushTheme sends the current theme to a client.
func (s *Server) pushTheme(client *socket.Socket) {
	client.Emit("pushTheme", map[string]any{"theme": s.theme.Current()})
}

// BroadcastState sends the playback state to all connected clients.
func (s *Server) BroadcastState() {
	s.io.Emit("pushState", s.controller.Snapshot())
}

// BroadcastLibrary notifies all clients that the catalog changed.
func (s *Server) BroadcastLibrary() {
	s.io.Emit("pushLibrary", map[string]any{"songs": s.library.Tracks()})
}

// BroadcastPlaylists sends the playlist collection to all clients.
func (s *Server) BroadcastPlaylists() {
	s.io.Emit("pushPlaylists", s.playlists.All())
}

// ServeHTTP implements http.Handler for the Socket.io server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHandler(nil).ServeHTTP(w, r)
}

// Close shuts down the Socket.io server.
func (s *Server) Close() error {
	s.debouncer.Stop()
	s.io.Close(nil)
	return nil
}

// argMap extracts the first argument as an object payload.
func argMap(args []any) (map[string]any, bool) {
	if len(args) == 0 {
		return nil, false
	}
	m, ok := args[0].(map[string]any)
	return m, ok
}

// argString reads a string field from a payload.
func argString(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// argInt reads a numeric field from a payload. JSON numbers decode as
// float64.
func argInt(m map[string]any, key string) (int, bool) {
	v, ok := m[key].(float64)
	return int(v), ok
}

// argStrings reads a string array field from a payload.
func argStrings(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
