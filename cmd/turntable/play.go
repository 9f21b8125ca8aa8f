package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-turntable/internal/playback"
	"github.com/hazadus/go-turntable/internal/tui"
	tuiapp "github.com/hazadus/go-turntable/internal/tui/app"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [slug]",
		Short: "Open an album in the player",
		Long:  `Launch the terminal player directly on the album with the given slug.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Неизвестный альбом: выходим до запуска интерфейса
			if _, err := app.Catalog.SelectAlbum(args[0]); err != nil {
				return err
			}
			return app.launchTUI(ctx, args[0])
		},
	}
}

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing and playing albums.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx, "")
		},
	}
}

func (app *Application) launchTUI(ctx context.Context, slug string) error {
	tuiApp := tui.NewApp(app.Catalog, app.Config.CatalogPath, app.tuiOptions(slug))
	return tuiApp.Run(ctx)
}

func (app *Application) tuiOptions(slug string) tuiapp.Options {
	return tuiapp.Options{
		NewElement:   app.newElement,
		Controller:   []playback.Option{playback.WithInitialVolume(app.Config.InitialVolume)},
		InitialAlbum: slug,
	}
}
