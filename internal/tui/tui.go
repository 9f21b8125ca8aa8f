// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	catalog     *catalog.Catalog
	catalogPath string
	opts        app.Options
}

// NewApp создает новый экземпляр TUI приложения. Если catalogPath не пуст,
// изменения файла каталога подхватываются на лету.
func NewApp(c *catalog.Catalog, catalogPath string, opts app.Options) *App {
	return &App{
		catalog:     c,
		catalogPath: catalogPath,
		opts:        opts,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := tuiApp.opts
	if tuiApp.catalogPath != "" && opts.CatalogUpdates == nil {
		opts.CatalogUpdates = tuiApp.watchCatalog(ctx)
	}

	model := app.NewMainModel(tuiApp.catalog, opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	// Освобождаем контроллер после завершения программы
	model.Close()

	return err
}

// watchCatalog следит за файлом каталога и отдает новые версии в канал.
// Канал закрывается, когда слежение прекращается.
func (tuiApp *App) watchCatalog(ctx context.Context) <-chan *catalog.Catalog {
	updates := make(chan *catalog.Catalog, 1)
	go func() {
		defer close(updates)
		err := catalog.Watch(ctx, tuiApp.catalogPath, func(c *catalog.Catalog) {
			select {
			case updates <- c:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			zlog.Warn().Err(err).Str("path", tuiApp.catalogPath).Msg("слежение за каталогом остановлено")
		}
	}()
	return updates
}
