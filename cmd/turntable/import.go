package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/metadata"
	"github.com/hazadus/go-turntable/internal/utils"
)

// createImportCommand создает команду import с привязкой к экземпляру приложения
func (app *Application) createImportCommand() *cobra.Command {
	var (
		replace bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import mp3 files from a directory as albums",
		Long:  `Scan a directory for mp3 files, group them into albums by tags and add the albums to the catalog.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.importDir(args[0], replace, dryRun)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the catalog instead of merging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show found albums without saving")
	return cmd
}

func (app *Application) importDir(dir string, replace, dryRun bool) error {
	fmt.Printf("🔍 Сканируем директорию: %s\n", dir)

	scanned, err := metadata.NewExtractor().ScanDir(dir)
	if err != nil {
		return errors.Wrap(err, "ошибка сканирования")
	}
	if len(scanned.Albums) == 0 {
		fmt.Println("📭 mp3-файлы не найдены")
		return nil
	}

	for _, a := range scanned.Albums {
		fmt.Printf("   💿 %s (%s): %d тр., %s\n",
			a.Title, a.Slug, len(a.Songs), utils.FormatDuration(a.TotalLength()))
	}

	if dryRun {
		fmt.Println("\n💡 Пробный запуск: каталог не изменен")
		return nil
	}

	if replace {
		app.Catalog = &catalog.Catalog{}
	}
	app.Catalog.Merge(scanned)
	if err := app.Catalog.Validate(); err != nil {
		return err
	}
	if err := app.SaveCatalog(); err != nil {
		return errors.Wrap(err, "ошибка сохранения каталога")
	}

	zlog.Info().Str("dir", dir).Int("albums", len(scanned.Albums)).Msg("альбомы импортированы")
	fmt.Printf("\n✅ Импортировано альбомов: %d\n", len(scanned.Albums))
	fmt.Printf("📦 Каталог сохранен в %s\n", app.Config.CatalogPath)
	return nil
}
