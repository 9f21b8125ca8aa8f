package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/utils"
)

// createAlbumsCommand создает команду albums с привязкой к экземпляру приложения
func (app *Application) createAlbumsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "albums",
		Short: "List all albums from the catalog",
		Long:  `Display a table of all albums in the catalog.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			app.listAlbums()
		},
	}
}

// createAlbumCommand создает команду album с привязкой к экземпляру приложения
func (app *Application) createAlbumCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "album [slug]",
		Short: "Show album details and tracklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.showAlbum(args[0])
		},
	}
}

func (app *Application) listAlbums() {
	if len(app.Catalog.Albums) == 0 {
		fmt.Println("📚 Каталог пуст. Добавьте альбомы с помощью команды 'import'.")
		return
	}

	fmt.Printf("📚 Найдено альбомов: %d\n\n", len(app.Catalog.Albums))

	fmt.Printf("%-24s %-32s %-22s %-6s %-10s\n",
		"Slug", "Альбом", "Исполнитель", "Треков", "Время")
	fmt.Println(strings.Repeat("-", 100))

	for _, a := range app.Catalog.Albums {
		fmt.Printf("%-24s %-32s %-22s %-6d %-10s\n",
			utils.TruncateString(a.Slug, 24),
			utils.TruncateString(a.Title, 32),
			utils.TruncateString(a.Artist, 22),
			len(a.Songs),
			utils.FormatDuration(a.TotalLength()))
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'turntable play [slug]' для воспроизведения альбома")
}

func (app *Application) showAlbum(slug string) error {
	a, err := app.Catalog.SelectAlbum(slug)
	if err != nil {
		return err
	}

	printAlbum(a)
	return nil
}

func printAlbum(a *catalog.Album) {
	fmt.Printf("💿 %s\n", a.Title)
	if a.Artist != "" {
		fmt.Printf("   Исполнитель: %s\n", a.Artist)
	}
	if a.ReleaseInfo != "" {
		fmt.Printf("   Релиз: %s\n", a.ReleaseInfo)
	}
	if a.AlbumCover != "" {
		fmt.Printf("   Обложка: %s\n", a.AlbumCover)
	}
	fmt.Printf("   Продолжительность: %s\n", utils.FormatDuration(a.TotalLength()))
	fmt.Println()

	for i, s := range a.Songs {
		fmt.Printf("%3d  %-50s %s\n", i+1, utils.TruncateString(s.Title, 50), utils.FormatTime(s.Duration))
	}
}
