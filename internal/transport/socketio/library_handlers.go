package socketio

import (
	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
)

// registerLibraryHandlers wires the catalog query events.
func (s *Server) registerLibraryHandlers(client *socket.Socket, clientID string) {
	client.On("getLibrary", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getLibrary")
		client.Emit("pushLibrary", map[string]any{"songs": s.library.Tracks()})
	})

	client.On("getAlbums", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getAlbums")
		client.Emit("pushAlbums", s.library.Albums())
	})

	client.On("getArtists", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getArtists")
		client.Emit("pushArtists", s.library.Artists())
	})

	client.On("getFolders", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getFolders")
		client.Emit("pushFolders", s.library.Folders())
	})

	client.On("search", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		query, _ := argString(m, "query")
		log.Debug().Str("id", clientID).Str("query", query).Msg("search")
		client.Emit("pushSearchResults", map[string]any{
			"query": query,
			"songs": s.library.Search(query),
		})
	})

	client.On("rescan", func(args ...any) {
		log.Info().Str("id", clientID).Msg("Rescan requested")
		if s.rescanner != nil {
			go s.rescanner.Rescan()
		}
	})
}
