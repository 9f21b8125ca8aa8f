// Package streaming открывает источники аудио: локальные файлы и HTTP-потоки
package streaming

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultBufferSize размер буфера потокового чтения по умолчанию
const DefaultBufferSize = 256 * 1024

// Reader представляет буферизованный поток для чтения данных порциями
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
}

// IsRemote сообщает, указывает ли источник на HTTP(S)-ресурс
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Open открывает источник аудио. URL читаются потоково через Reader,
// остальные источники считаются путями к локальным файлам; файл
// реализует io.Seeker, поэтому поддерживает перемотку.
func Open(ctx context.Context, src string, bufferSize int) (io.ReadCloser, error) {
	if IsRemote(src) {
		return NewReader(ctx, src, bufferSize)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	return f, nil
}

// NewReader создает новый потоковый ридер
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	// HTTP клиент без общего таймаута: поток читается на протяжении всего трека
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания запроса")
	}

	req.Header.Set("Accept-Encoding", "identity") // Сжатие мешает декодеру
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("User-Agent", "go-turntable/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка выполнения запроса")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, errors.Newf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}
