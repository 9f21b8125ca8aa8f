// Package catalog содержит статический каталог альбомов и функции его загрузки
package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-turntable/internal/streaming"
)

// ErrAlbumNotFound возвращается, если альбома с указанным slug нет в каталоге
var ErrAlbumNotFound = errors.New("альбом не найден")

// Song описывает один трек альбома
type Song struct {
	Title    string  `yaml:"title" validate:"required"`
	AudioSrc string  `yaml:"audio_src" validate:"required"`
	Duration float64 `yaml:"duration" validate:"gte=0"` // Номинальная длительность в секундах

	// Путь из файла каталога до разрешения и результат разрешения
	rawSrc      string
	resolvedSrc string
}

// Length возвращает номинальную длительность трека
func (s Song) Length() time.Duration {
	return time.Duration(s.Duration * float64(time.Second))
}

// Album описывает альбом с упорядоченным списком треков
type Album struct {
	Slug        string `yaml:"slug" validate:"required"`
	Title       string `yaml:"title" validate:"required"`
	Artist      string `yaml:"artist,omitempty"`
	ReleaseInfo string `yaml:"release_info,omitempty"`
	AlbumCover  string `yaml:"album_cover,omitempty"`
	Songs       []Song `yaml:"songs" validate:"required,min=1,dive"`
}

// TotalLength возвращает суммарную номинальную длительность альбома
func (a *Album) TotalLength() time.Duration {
	var total time.Duration
	for _, s := range a.Songs {
		total += s.Length()
	}
	return total
}

// Catalog хранит все доступные альбомы
type Catalog struct {
	Albums []Album `yaml:"albums" validate:"dive"`
}

var validate = validator.New()

// Parse разбирает и проверяет каталог в формате YAML
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if len(data) == 0 {
		return c, nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора каталога")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет обязательные поля и уникальность slug
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "некорректный каталог")
	}
	seen := make(map[string]struct{}, len(c.Albums))
	for _, a := range c.Albums {
		if _, ok := seen[a.Slug]; ok {
			return errors.Newf("некорректный каталог: повторяющийся slug %q", a.Slug)
		}
		seen[a.Slug] = struct{}{}
	}
	return nil
}

// Load загружает каталог из файла. Относительные пути к аудио
// разрешаются относительно каталога, в котором лежит файл.
func Load(filePath string) (*Catalog, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения файла каталога")
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.resolveSources(filepath.Dir(path))
	return c, nil
}

// Save сохраняет каталог в файл, создавая недостающие директории.
// Пути, разрешенные при загрузке и не измененные после нее, записываются
// в исходном относительном виде.
func (c *Catalog) Save(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c.unresolved())
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации каталога")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "ошибка создания директории каталога")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "ошибка записи файла каталога")
	}
	return nil
}

// SelectAlbum ищет альбом по slug
func (c *Catalog) SelectAlbum(slug string) (*Album, error) {
	for i := range c.Albums {
		if c.Albums[i].Slug == slug {
			return &c.Albums[i], nil
		}
	}
	return nil, errors.Wrapf(ErrAlbumNotFound, "slug %q", slug)
}

// Merge добавляет альбомы из другого каталога; альбомы с совпадающим
// slug заменяются новыми версиями
func (c *Catalog) Merge(other *Catalog) {
	for _, a := range other.Albums {
		replaced := false
		for i := range c.Albums {
			if c.Albums[i].Slug == a.Slug {
				c.Albums[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			c.Albums = append(c.Albums, a)
		}
	}
}

func (c *Catalog) resolveSources(baseDir string) {
	for i := range c.Albums {
		for j := range c.Albums[i].Songs {
			src := c.Albums[i].Songs[j].AudioSrc
			if streaming.IsRemote(src) || filepath.IsAbs(src) {
				continue
			}
			song := &c.Albums[i].Songs[j]
			song.rawSrc = src
			song.resolvedSrc = filepath.Join(baseDir, src)
			song.AudioSrc = song.resolvedSrc
		}
	}
}

// unresolved возвращает копию каталога с исходными путями к аудио
func (c *Catalog) unresolved() *Catalog {
	out := &Catalog{Albums: make([]Album, len(c.Albums))}
	for i, a := range c.Albums {
		songs := make([]Song, len(a.Songs))
		for j, song := range a.Songs {
			if song.rawSrc != "" && song.AudioSrc == song.resolvedSrc {
				song.AudioSrc = song.rawSrc
			}
			songs[j] = song
		}
		a.Songs = songs
		out.Albums[i] = a
	}
	return out
}

func expandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "не удалось определить домашнюю директорию")
	}
	return strings.Replace(filePath, "~", home, 1), nil
}
