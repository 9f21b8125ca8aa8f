package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-turntable/internal/catalog"
)

const syncTimeout = 2 * time.Minute

// createCatalogCommand создает группу команд синхронизации каталога с S3
func (app *Application) createCatalogCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Sync the catalog file with S3 storage",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the catalog file to S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			pushCtx, cancel := context.WithTimeout(ctx, syncTimeout)
			defer cancel()
			return app.pushCatalog(pushCtx)
		},
	})

	var merge bool
	pull := &cobra.Command{
		Use:   "pull",
		Short: "Download the catalog file from S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			pullCtx, cancel := context.WithTimeout(ctx, syncTimeout)
			defer cancel()
			return app.pullCatalog(pullCtx, merge)
		},
	}
	pull.Flags().BoolVar(&merge, "merge", false, "merge downloaded albums into the local catalog")
	cmd.AddCommand(pull)

	return cmd
}

func (app *Application) pushCatalog(ctx context.Context) error {
	store, err := app.newStore()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(app.Config.CatalogPath)
	if err != nil {
		return errors.Wrap(err, "ошибка чтения файла каталога")
	}
	// Загружаем только корректный каталог
	if _, err := catalog.Parse(data); err != nil {
		return err
	}

	fmt.Printf("📤 Загружаем каталог в S3:\n")
	fmt.Printf("   Файл: %s\n", app.Config.CatalogPath)
	fmt.Printf("   Ключ: %s\n", app.Config.CatalogKey)

	url, err := store.Upload(ctx, bytes.NewReader(data), app.Config.CatalogKey)
	if err != nil {
		return err
	}

	zlog.Info().Str("key", app.Config.CatalogKey).Msg("каталог загружен в S3")
	fmt.Printf("\n✅ Каталог загружен: %s\n", url)
	return nil
}

func (app *Application) pullCatalog(ctx context.Context, merge bool) error {
	store, err := app.newStore()
	if err != nil {
		return err
	}

	fmt.Printf("📥 Скачиваем каталог из S3: %s\n", app.Config.CatalogKey)

	data, err := store.Download(ctx, app.Config.CatalogKey)
	if err != nil {
		return err
	}
	remote, err := catalog.Parse(data)
	if err != nil {
		return err
	}

	if merge {
		app.Catalog.Merge(remote)
	} else {
		app.Catalog = remote
	}
	if err := app.Catalog.Validate(); err != nil {
		return err
	}
	if err := app.SaveCatalog(); err != nil {
		return errors.Wrap(err, "ошибка сохранения каталога")
	}

	zlog.Info().Str("key", app.Config.CatalogKey).Int("albums", len(app.Catalog.Albums)).Msg("каталог скачан из S3")
	fmt.Printf("\n✅ Альбомов в каталоге: %d\n", len(app.Catalog.Albums))
	fmt.Printf("📦 Каталог сохранен в %s\n", app.Config.CatalogPath)
	return nil
}
