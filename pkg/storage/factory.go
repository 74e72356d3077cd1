package storage

import (
	"fmt"

	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/storage/local"
	"github.com/yi-nology/itam/pkg/storage/s3"
)

// New builds the backend selected by cfg.Storage. Download URLs honour
// cfg.Server.BasePath.
func New(cfg *config.Config) (Storage, error) {
	urlPrefix := AttachmentURLPrefix(cfg.Server.BasePath)
	sc := cfg.Storage

	switch sc.Type {
	case "", "local":
		return local.New(sc.Local.BasePath, local.WithURLPrefix(urlPrefix))

	case "s3":
		return s3.New(s3.Config{
			Endpoint:      sc.S3.Endpoint,
			Region:        sc.S3.Region,
			Bucket:        sc.S3.Bucket,
			AccessKey:     sc.S3.AccessKey,
			SecretKey:     sc.S3.SecretKey,
			UseSSL:        sc.S3.UseSSL,
			PathStyle:     sc.S3.PathStyle,
			URLMode:       sc.S3.URLMode,
			Prefix:        sc.S3.Prefix,
			PresignExpiry: sc.S3.PresignExpiry,
			URLPrefix:     urlPrefix,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", sc.Type)
	}
}

// AttachmentURLPrefix is the download route for attachments under basePath.
func AttachmentURLPrefix(basePath string) string {
	return config.NormalizeBasePath(basePath) + local.DefaultURLPrefix
}

// ObjectKey builds the "{id}/{fileName}" key layout shared by all backends.
func ObjectKey(id, fileName string) string {
	return fmt.Sprintf("%s/%s", id, fileName)
}
