package socketio

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

// registerPlayerHandlers wires the playback control events.
func (s *Server) registerPlayerHandlers(client *socket.Socket, clientID string) {
	client.On("getState", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getState")
		s.pushState(client)
	})

	client.On("playQueue", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		ids := argStrings(m, "songIds")
		start, _ := argInt(m, "startIndex")
		log.Debug().Str("id", clientID).Int("songs", len(ids)).Int("start", start).Msg("playQueue")

		tracks := s.resolveTracks(ids)
		if err := s.controller.PlayQueue(tracks, start); err != nil {
			log.Error().Err(err).Msg("PlayQueue failed")
		}
	})

	client.On("playSong", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		id, ok := argString(m, "songId")
		if !ok {
			return
		}
		log.Debug().Str("id", clientID).Str("song", id).Msg("playSong")

		track, ok := s.library.TrackByID(id)
		if !ok {
			log.Warn().Str("song", id).Msg("Unknown song")
			return
		}

		queue := s.resolveTracks(argStrings(m, "queueIds"))
		if len(queue) == 0 {
			queue = s.library.Tracks()
		}
		if err := s.controller.PlayTrack(track, queue); err != nil {
			log.Error().Err(err).Msg("PlayTrack failed")
		}
	})

	client.On("togglePlayPause", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("togglePlayPause")
		s.controller.TogglePlayPause()
	})

	client.On("next", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("next")
		s.controller.SkipToNext()
	})

	client.On("previous", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("previous")
		s.controller.SkipToPrevious()
	})

	client.On("seek", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		pos, ok := argInt(m, "position")
		if !ok {
			return
		}
		log.Debug().Str("id", clientID).Int("pos", pos).Msg("seek")
		s.controller.SeekTo(pos)
	})

	client.On("toggleShuffle", func(args ...any) {
		on := s.controller.ToggleShuffle()
		log.Debug().Str("id", clientID).Bool("shuffle", on).Msg("toggleShuffle")
	})

	client.On("toggleRepeat", func(args ...any) {
		mode := s.controller.ToggleRepeat()
		log.Debug().Str("id", clientID).Str("repeat", string(mode)).Msg("toggleRepeat")
	})

	client.On("addToQueue", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		id, ok := argString(m, "songId")
		if !ok {
			return
		}
		log.Debug().Str("id", clientID).Str("song", id).Msg("addToQueue")

		if track, ok := s.library.TrackByID(id); ok {
			s.controller.AddToQueue(track)
		}
	})

	client.On("clearQueue", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("clearQueue")
		s.controller.ClearQueue()
	})

	client.On("stop", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("stop")
		s.controller.Stop()
	})

	client.On("setSleepTimer", func(args ...any) {
		m, ok := argMap(args)
		if !ok {
			return
		}
		minutes, ok := argInt(m, "minutes")
		if !ok {
			return
		}
		log.Debug().Str("id", clientID).Int("minutes", minutes).Msg("setSleepTimer")

		s.controller.SetSleepTimer(time.Duration(minutes) * time.Minute)
		s.pushSleepTimer(client)
	})

	client.On("cancelSleepTimer", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("cancelSleepTimer")
		s.controller.CancelSleepTimer()
		s.pushSleepTimer(client)
	})

	client.On("getSleepTimer", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getSleepTimer")
		s.pushSleepTimer(client)
	})
}

// pushSleepTimer sends the remaining sleep timer seconds to one client.
// Zero means no timer is pending.
func (s *Server) pushSleepTimer(client *socket.Socket) {
	remaining := s.controller.SleepTimerRemaining()
	client.Emit("pushSleepTimer", map[string]any{
		"remainingSeconds": int(remaining.Seconds()),
	})
}

// resolveTracks maps song IDs to catalog tracks, dropping unknown IDs.
func (s *Server) resolveTracks(ids []string) []library.Track {
	tracks := make([]library.Track, 0, len(ids))
	for _, id := range ids {
		if track, ok := s.library.TrackByID(id); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks
}
