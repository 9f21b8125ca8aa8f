package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "turntable",
		Short:        "Browse and play music albums in the terminal",
		Long:         `A terminal music player for albums: browse the catalog, play albums track by track, import mp3 folders and sync the catalog with S3.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(app.createAlbumsCommand())
	rootCmd.AddCommand(app.createAlbumCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createImportCommand())
	rootCmd.AddCommand(app.createCatalogCommand(ctx))

	return rootCmd
}
