package socketio

import (
	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/Vinoth-46/isai-backend/internal/domain/playlist"
)

// createPlaylistResult picks the event to answer a createPlaylist request
// with. Creation can fail in storage, and the client needs to hear about
// it rather than receive a phantom playlist.
func createPlaylistResult(p playlist.Playlist, name string, err error) (string, any) {
	if err != nil {
		return "pushPlaylistError", map[string]any{
			"name":  name,
			"error": err.Error(),
		}
	}
	return "pushPlaylistCreated", p
}

// registerPlaylistHandlers wires the playlist CRUD events. Mutations
// broadcast the full collection so every client stays in sync.
func (s *Server) registerPlaylistHandlers(client *socket.Socket, clientID string) {
	client.On("getPlaylists", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getPlaylists")
		client.Emit("pushPlaylists", s.playlists.All())
	})

	client.On("createPlaylist", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		name, ok := argString(m, "name")
		if !ok || name == "" {
			return
		}
		log.Debug().Str("id", clientID).Str("name", name).Msg("createPlaylist")

		created, err := s.playlists.Create(name)
		event, payload := createPlaylistResult(created, name, err)
		if err != nil {
			log.Error().Err(err).Str("name", name).Msg("Create playlist failed")
			client.Emit(event, payload)
			return
		}
		client.Emit(event, payload)
		s.BroadcastPlaylists()
	})

	client.On("addToPlaylist", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		playlistID, _ := argString(m, "playlistId")
		songID, _ := argString(m, "songId")
		log.Debug().Str("id", clientID).Str("playlist", playlistID).Str("song", songID).Msg("addToPlaylist")

		if s.playlists.AddSong(playlistID, songID) {
			s.BroadcastPlaylists()
		}
	})

	client.On("removeFromPlaylist", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		playlistID, _ := argString(m, "playlistId")
		songID, _ := argString(m, "songId")
		log.Debug().Str("id", clientID).Str("playlist", playlistID).Str("song", songID).Msg("removeFromPlaylist")

		if s.playlists.RemoveSong(playlistID, songID) {
			s.BroadcastPlaylists()
		}
	})

	client.On("renamePlaylist", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		playlistID, _ := argString(m, "playlistId")
		name, ok := argString(m, "name")
		if !ok || name == "" {
			return
		}
		log.Debug().Str("id", clientID).Str("playlist", playlistID).Msg("renamePlaylist")

		if s.playlists.Rename(playlistID, name) {
			s.BroadcastPlaylists()
		}
	})

	client.On("deletePlaylist", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		playlistID, _ := argString(m, "playlistId")
		log.Debug().Str("id", clientID).Str("playlist", playlistID).Msg("deletePlaylist")

		if s.playlists.Delete(playlistID) {
			s.BroadcastPlaylists()
		}
	})

	client.On("getPlaylistSongs", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		playlistID, _ := argString(m, "playlistId")
		log.Debug().Str("id", clientID).Str("playlist", playlistID).Msg("getPlaylistSongs")

		songs, ok := s.playlists.Resolve(playlistID, s.library.TrackByID)
		if !ok {
			return
		}
		client.Emit("pushPlaylistSongs", map[string]any{
			"playlistId": playlistID,
			"songs":      songs,
		})
	})
}
