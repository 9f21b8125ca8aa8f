package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/audio"
	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/config"
	"github.com/hazadus/go-turntable/internal/logger"
	"github.com/hazadus/go-turntable/internal/s3"
)

const (
	defaultConfigPath = "~/.turntable/config.yaml"
)

// catalogStore удаленное хранилище файла каталога
type catalogStore interface {
	Upload(ctx context.Context, reader io.Reader, key string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Application хранит конфигурацию и каталог, общие для всех команд
type Application struct {
	Config  *config.Config
	Catalog *catalog.Catalog

	// newStore создает хранилище каталога; подменяется в тестах
	newStore func() (catalogStore, error)
	// newElement создает примитив воспроизведения для TUI
	newElement func() audio.Element
}

// NewApplication создает приложение с зависимостями по умолчанию
func NewApplication(cfg *config.Config, c *catalog.Catalog) *Application {
	app := &Application{
		Config:  cfg,
		Catalog: c,
	}
	app.newStore = app.defaultStore
	app.newElement = func() audio.Element {
		return audio.NewBeepElement(audio.WithTickInterval(cfg.TickInterval()))
	}
	return app
}

func (app *Application) defaultStore() (catalogStore, error) {
	if !app.Config.HasS3() {
		return nil, errors.New("хранилище S3 не настроено: укажите aws_bucket_name в конфигурации")
	}
	return s3.NewStore(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
}

// SaveCatalog сохраняет каталог в файл из конфигурации
func (app *Application) SaveCatalog() error {
	return app.Catalog.Save(app.Config.CatalogPath)
}

// loadConfig читает конфигурацию; без файла используются значения по умолчанию
func loadConfig() (*config.Config, error) {
	path := defaultConfigPath
	if v := os.Getenv("TURNTABLE_CONFIG"); v != "" {
		path = v
	}

	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return cfg, err
}

// loadCatalog читает каталог; отсутствующий файл означает пустой каталог
func loadCatalog(path string) (*catalog.Catalog, error) {
	c, err := catalog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &catalog.Catalog{}, nil
	}
	return c, err
}

func main() {
	// .env необязателен
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.Init(logger.Config{
		Output: "file",
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка настройки журнала: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	c, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		zlog.Error().Err(err).Str("path", cfg.CatalogPath).Msg("ошибка загрузки каталога")
		fmt.Fprintf(os.Stderr, "Ошибка загрузки каталога: %v\n", err)
		os.Exit(1)
	}
	zlog.Info().Str("path", cfg.CatalogPath).Int("albums", len(c.Albums)).Msg("каталог загружен")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApplication(cfg, c)
	if err := app.createRootCommand(ctx).Execute(); err != nil {
		zlog.Error().Err(err).Msg("команда завершилась с ошибкой")
		stop()
		closer.Close()
		os.Exit(1)
	}
}
