package socketio

import (
	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/Vinoth-46/isai-backend/internal/domain/theme"
)

// registerHistoryHandlers wires the listening history events.
func (s *Server) registerHistoryHandlers(client *socket.Socket, clientID string) {
	client.On("getRecentlyPlayed", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getRecentlyPlayed")
		client.Emit("pushRecentlyPlayed", s.history.RecentlyPlayed(s.library.TrackByID))
	})

	client.On("getMostPlayed", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getMostPlayed")
		client.Emit("pushMostPlayed", s.history.MostPlayed(s.library.TrackByID))
	})

	client.On("clearHistory", func(args ...any) {
		log.Info().Str("id", clientID).Msg("clearHistory")
		s.history.Clear()
		s.io.Emit("pushRecentlyPlayed", s.history.RecentlyPlayed(s.library.TrackByID))
		s.io.Emit("pushMostPlayed", s.history.MostPlayed(s.library.TrackByID))
	})
}

// registerThemeHandlers wires the theme preference events.
func (s *Server) registerThemeHandlers(client *socket.Socket, clientID string) {
	client.On("getTheme", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getTheme")
		s.pushTheme(client)
	})

	client.On("toggleTheme", func(args ...any) {
		next := s.theme.Toggle()
		log.Debug().Str("id", clientID).Str("theme", string(next)).Msg("toggleTheme")
		s.io.Emit("pushTheme", map[string]any{"theme": next})
	})

	client.On("setTheme", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		name, ok := argString(m, "theme")
		if !ok {
			return
		}
		log.Debug().Str("id", clientID).Str("theme", name).Msg("setTheme")
		s.theme.Set(theme.Theme(name))
		s.io.Emit("pushTheme", map[string]any{"theme": s.theme.Current()})
	})
}
