package metadata

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/catalog"
)

var coverNames = []string{"cover.jpg", "cover.png", "folder.jpg", "folder.png", "front.jpg"}

type scannedTrack struct {
	path string
	meta TrackMetadata
	secs float64
}

// ScanDir рекурсивно обходит директорию и собирает альбомы из mp3-файлов.
// Треки группируются по тегу альбома, а без тега по имени директории.
// Внутри альбома треки упорядочены по номеру, затем по имени файла.
func (e *Extractor) ScanDir(root string) (*catalog.Catalog, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка определения пути")
	}

	type group struct {
		dir    string
		tracks []scannedTrack
	}
	groups := make(map[string]*group)
	var order []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		meta := e.ExtractFromFile(path)
		track := scannedTrack{path: path, meta: meta}
		if dur, err := e.GetDuration(path); err != nil {
			zlog.Warn().Err(err).Str("file", path).Msg("не удалось определить длительность")
		} else {
			track.secs = dur.Seconds()
		}

		dir := filepath.Dir(path)
		key := meta.Album
		if key == "" {
			key = filepath.Base(dir)
		}
		g, ok := groups[key]
		if !ok {
			g = &group{dir: dir}
			groups[key] = g
			order = append(order, key)
		}
		g.tracks = append(g.tracks, track)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка обхода директории %s", root)
	}

	sort.Strings(order)
	result := &catalog.Catalog{}
	used := make(map[string]int)
	for _, title := range order {
		g := groups[title]
		album := buildAlbum(title, g.dir, g.tracks)

		// slug должен быть уникальным в пределах каталога
		if n := used[album.Slug]; n > 0 {
			used[album.Slug] = n + 1
			album.Slug += "-" + strconv.Itoa(n+1)
		} else {
			used[album.Slug] = 1
		}
		result.Albums = append(result.Albums, album)
		zlog.Debug().Str("album", album.Title).Int("songs", len(album.Songs)).Msg("альбом найден")
	}
	return result, nil
}

func buildAlbum(title, dir string, tracks []scannedTrack) catalog.Album {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := tracks[i].meta.Track, tracks[j].meta.Track
		if a != b && a > 0 && b > 0 {
			return a < b
		}
		return tracks[i].path < tracks[j].path
	})

	album := catalog.Album{
		Slug:  catalog.Slugify(title),
		Title: title,
	}
	if album.Slug == "" {
		album.Slug = "album"
	}

	for _, t := range tracks {
		if album.Artist == "" && t.meta.Artist != UnknownArtist {
			album.Artist = t.meta.Artist
		}
		if album.ReleaseInfo == "" && t.meta.Year > 0 {
			album.ReleaseInfo = strconv.Itoa(t.meta.Year)
		}
		album.Songs = append(album.Songs, catalog.Song{
			Title:    t.meta.Title,
			AudioSrc: t.path,
			Duration: t.secs,
		})
	}

	for _, name := range coverNames {
		cover := filepath.Join(dir, name)
		if info, err := os.Stat(cover); err == nil && !info.IsDir() {
			album.AlbumCover = cover
			break
		}
	}
	return album
}
