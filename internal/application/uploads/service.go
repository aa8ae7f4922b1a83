package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"yardsale-board/internal/config"
	"yardsale-board/internal/domain"
	"yardsale-board/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// UploadURLExpiry is how long a presigned photo upload stays valid.
const UploadURLExpiry = 15 * time.Minute

// Signer issues presigned PUT URLs for object paths.
type Signer interface {
	PresignPut(ctx context.Context, path string, expiry time.Duration) (string, error)
	PublicURL(path string) string
}

// MinioSigner signs against any S3-compatible endpoint.
type MinioSigner struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioSigner builds the client without touching the network; the region is fixed
// so presigning never needs a bucket-location lookup.
func NewMinioSigner(cfg config.S3Config) (*MinioSigner, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}
	publicBase := strings.TrimRight(cfg.PublicURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("%s/%s", client.EndpointURL().String(), cfg.Bucket)
	}
	return &MinioSigner{client: client, bucket: cfg.Bucket, publicBase: publicBase}, nil
}

func (m *MinioSigner) PresignPut(ctx context.Context, path string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, path, expiry)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", m.bucket, path, err)
	}
	return u.String(), nil
}

func (m *MinioSigner) PublicURL(path string) string {
	return m.publicBase + "/" + path
}

// Service hands out photo upload URLs for listings.
type Service struct {
	Signer Signer
	Now    func() time.Time
}

// UploadResult is returned to the browser, which PUTs the file to UploadURL and submits
// PublicURL as the listing's photoUrl.
type UploadResult struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// GetSignedUploadURL validates the file name and presigns photos/<millis>-<uuid><ext>.
func (s *Service) GetSignedUploadURL(ctx context.Context, fileName string) (*UploadResult, error) {
	if validation.IsBlank(fileName) {
		return nil, domain.MissingField("fileName")
	}
	if !validation.IsImageFileName(strings.TrimSpace(fileName)) {
		return nil, &domain.ValidationError{Field: "fileName", Message: "Only image files can be uploaded"}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	path := fmt.Sprintf("photos/%d-%s%s", now().UnixMilli(), uuid.New().String(), ext)

	signed, err := s.Signer.PresignPut(ctx, path, UploadURLExpiry)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("upload: failed to presign")
		return nil, err
	}
	return &UploadResult{
		UploadURL: signed,
		PublicURL: s.Signer.PublicURL(path),
		Path:      path,
	}, nil
}
