// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	CatalogPath    string  `yaml:"catalog_path" default:"~/.turntable/albums.yaml" validate:"required"`
	InitialVolume  float64 `yaml:"initial_volume" default:"0.3" validate:"gte=0,lte=1"`
	TickIntervalMs int     `yaml:"tick_interval_ms" default:"250" validate:"gte=10,lte=5000"`
	LogFile        string  `yaml:"log_file" default:"~/.turntable/turntable.log"`
	LogLevel       string  `yaml:"log_level" default:"info" validate:"oneof=debug info warn warning error"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region" default:"us-east-1"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
	CatalogKey    string `yaml:"catalog_key" default:"albums.yaml"`
}

// TickInterval возвращает период обновления позиции воспроизведения
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// HasS3 сообщает, настроено ли хранилище S3 для каталога
func (c *Config) HasS3() bool {
	return c.AwsBucketName != ""
}

var validate = validator.New()

// Default возвращает конфигурацию со значениями по умолчанию
func Default() (*Config, error) {
	config := &Config{}
	if err := defaults.Set(config); err != nil {
		return nil, errors.Wrap(err, "ошибка установки значений по умолчанию")
	}
	if err := config.finalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Переменные окружения имеют приоритет над значениями из файла.
func LoadConfig(filePath string) (*Config, error) {
	path, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения файла конфигурации")
	}

	config := &Config{}
	if err := defaults.Set(config); err != nil {
		return nil, errors.Wrap(err, "ошибка установки значений по умолчанию")
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора yaml конфигурации")
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// finalize применяет переменные окружения, раскрывает тильды и проверяет значения
func (c *Config) finalize() error {
	c.applyEnv()

	var err error
	if c.CatalogPath, err = ExpandHome(c.CatalogPath); err != nil {
		return err
	}
	if c.LogFile, err = ExpandHome(c.LogFile); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "некорректная конфигурация")
	}
	return nil
}

// applyEnv переопределяет значения переменными окружения
func (c *Config) applyEnv() {
	setString := func(target *string, keys ...string) {
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok && v != "" {
				*target = v
				return
			}
		}
	}

	setString(&c.CatalogPath, "TURNTABLE_CATALOG")
	setString(&c.LogFile, "TURNTABLE_LOG_FILE")
	setString(&c.LogLevel, "TURNTABLE_LOG_LEVEL")
	setString(&c.AwsBucketName, "TURNTABLE_AWS_BUCKET_NAME", "AWS_BUCKET_NAME")
	setString(&c.AwsAccessKey, "TURNTABLE_AWS_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	setString(&c.AwsSecretKey, "TURNTABLE_AWS_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")
	setString(&c.AwsRegion, "TURNTABLE_AWS_REGION", "AWS_REGION")
	setString(&c.AwsEndpoint, "TURNTABLE_AWS_ENDPOINT")

	if v, ok := os.LookupEnv("TURNTABLE_VOLUME"); ok {
		if volume, err := strconv.ParseFloat(v, 64); err == nil {
			c.InitialVolume = volume
		}
	}
}

// ExpandHome раскрывает тильду в начале пути
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "не удалось определить домашнюю директорию")
	}
	return strings.Replace(path, "~", home, 1), nil
}
