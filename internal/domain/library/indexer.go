package library

// Index holds the derived groupings of a catalog snapshot. It is rebuilt
// wholesale whenever the catalog is replaced; groups preserve first-seen
// catalog order and are never mutated incrementally.
type Index struct {
	Albums  []Album
	Artists []Artist
	Folders []Folder
}

// BuildIndex derives the album, artist, and folder groupings from a
// catalog snapshot in a single O(n) pass per grouping.
func BuildIndex(tracks []Track) Index {
	return Index{
		Albums:  groupAlbums(tracks),
		Artists: groupArtists(tracks),
		Folders: groupFolders(tracks),
	}
}

// groupAlbums partitions tracks by their (album, artist) pair.
func groupAlbums(tracks []Track) []Album {
	var albums []Album
	position := make(map[string]int)

	for _, track := range tracks {
		id := AlbumID(track.Album, track.Artist)
		i, ok := position[id]
		if !ok {
			i = len(albums)
			position[id] = i
			albums = append(albums, Album{
				ID:     id,
				Name:   track.Album,
				Artist: track.Artist,
			})
		}
		albums[i].Tracks = append(albums[i].Tracks, track)
	}

	return albums
}

// groupArtists partitions tracks by artist name, then attributes to each
// artist the albums whose artist string matches exactly (case-sensitive).
func groupArtists(tracks []Track) []Artist {
	var artists []Artist
	position := make(map[string]int)

	for _, track := range tracks {
		i, ok := position[track.Artist]
		if !ok {
			i = len(artists)
			position[track.Artist] = i
			artists = append(artists, Artist{Name: track.Artist})
		}
		artists[i].Tracks = append(artists[i].Tracks, track)
	}

	for _, album := range groupAlbums(tracks) {
		if i, ok := position[album.Artist]; ok {
			artists[i].Albums = append(artists[i].Albums, album)
		}
	}

	return artists
}

// groupFolders partitions tracks by their folder label.
func groupFolders(tracks []Track) []Folder {
	var folders []Folder
	position := make(map[string]int)

	for _, track := range tracks {
		name := track.Folder
		if name == "" {
			name = UnknownFolder
		}
		i, ok := position[name]
		if !ok {
			i = len(folders)
			position[name] = i
			folders = append(folders, Folder{Name: name})
		}
		folders[i].Tracks = append(folders[i].Tracks, track)
	}

	return folders
}
