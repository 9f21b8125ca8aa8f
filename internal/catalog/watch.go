package catalog

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"
)

// Watch следит за файлом каталога и вызывает onChange с перечитанным
// каталогом после каждой записи. Следим за директорией, а не за файлом:
// редакторы часто сохраняют файл через переименование.
// Блокируется до отмены контекста.
func Watch(ctx context.Context, filePath string, onChange func(*Catalog)) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "ошибка создания наблюдателя за каталогом")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "ошибка подписки на изменения каталога")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			c, err := Load(path)
			if err != nil {
				zlog.Warn().Err(err).Str("path", path).Msg("каталог изменился, но не читается")
				continue
			}
			zlog.Debug().Str("path", path).Int("albums", len(c.Albums)).Msg("каталог перечитан")
			onChange(c)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zlog.Warn().Err(err).Msg("ошибка наблюдателя за каталогом")
		}
	}
}
