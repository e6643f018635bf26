package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrNotFound = errors.New("file not found")

// Storage - хранилище загруженных файлов (сканы документов). Файлы
// адресуются ключом вида "verification/<user>/<uuid>.jpg".
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetURL возвращает публичный адрес файла
	GetURL(ctx context.Context, key string) (string, error)
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local
	BaseURL    string
	Bucket     string // s3 / r2
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // r2 или совместимый с S3 сервис
	PublicRead bool
}

// NewStorage выбирает реализацию по cfg.Type
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewObjectStorage(cfg)
	case "cloudflare_r2":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
		}
		cfg.Region = "auto"
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
