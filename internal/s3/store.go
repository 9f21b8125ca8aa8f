// Package s3 хранит файлы каталога альбомов в Amazon S3 или совместимом хранилище
package s3

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/cockroachdb/errors"
)

// ErrNotFound объект отсутствует в хранилище
var ErrNotFound = errors.New("объект не найден в хранилище")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

type uploaderAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type downloaderAPI interface {
	DownloadWithContext(ctx aws.Context, w io.WriterAt, input *s3.GetObjectInput, opts ...func(*s3manager.Downloader)) (int64, error)
}

type clientAPI interface {
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// Store обертка над S3 uploader, downloader и клиентом
type Store struct {
	uploader   uploaderAPI
	downloader downloaderAPI
	client     clientAPI
	config     *Config
}

// NewStore создает хранилище по настройкам
func NewStore(config *Config) (*Store, error) {
	if config.BucketName == "" {
		return nil, errors.New("не указан bucket S3")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	// Если указан endpoint, используем path-style адресацию
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания AWS сессии")
	}

	return newStore(config, s3manager.NewUploader(sess), s3manager.NewDownloader(sess), s3.New(sess)), nil
}

func newStore(config *Config, up uploaderAPI, down downloaderAPI, client clientAPI) *Store {
	return &Store{
		uploader:   up,
		downloader: down,
		client:     client,
		config:     config,
	}
}

// Bucket возвращает имя bucket
func (s *Store) Bucket() string {
	return s.config.BucketName
}

// Upload загружает содержимое под ключом key и возвращает адрес объекта
func (s *Store) Upload(ctx context.Context, reader io.Reader, key string) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка загрузки %s", key)
	}

	if out != nil && out.Location != "" {
		return out.Location, nil
	}
	return strings.TrimSuffix(s.config.Endpoint, "/") + "/" + s.config.BucketName + "/" + key, nil
}

// Download скачивает объект целиком
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	buf := aws.NewWriteAtBuffer([]byte{})
	_, err := s.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, errors.Wrapf(ErrNotFound, "ключ %s", key)
		}
		return nil, errors.Wrapf(err, "ошибка скачивания %s", key)
	}
	return buf.Bytes(), nil
}

// Delete удаляет объект из хранилища
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "ошибка удаления %s из S3", key)
	}
	return nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".yaml"), strings.HasSuffix(key, ".yml"):
		return "application/yaml"
	case strings.HasSuffix(key, ".mp3"):
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
