package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

// CloudinaryStore stores blobs in a Cloudinary media library. Credentials
// come from a CLOUDINARY_URL style connection string.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	if url == "" {
		return nil, errors.New("storage: cloudinary url is empty")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "storage: init cloudinary")
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, key string, contentType string) (*Blob, error) {
	if s == nil || s.cld == nil {
		return nil, errors.New("storage: cloudinary is not configured")
	}
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     key,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage: upload")
	}
	if resp.Error.Message != "" {
		return nil, errors.Errorf("storage: upload: %s", resp.Error.Message)
	}
	zap.L().Debug("blob uploaded",
		zap.String("namespace", "storage"),
		zap.String("public_id", resp.PublicID))
	return &Blob{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Kind:     domain.MediaKindFromContentType(contentType),
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string, kind string) error {
	if s == nil || s.cld == nil {
		return errors.New("storage: cloudinary is not configured")
	}
	resourceType := "image"
	if kind == domain.MediaKindVideo {
		resourceType = "video"
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return errors.Wrap(err, "storage: destroy")
	}
	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		return ErrNotFound
	default:
		return errors.Errorf("storage: destroy %s: %s", publicID, resp.Result)
	}
}
