package minio

import (
	"CAConnect/internal/api/config"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
)

// UploadFile stores an object in the main bucket and returns its key.
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, MainBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// UploadThumbnail decodes an image, fits it into maxSize, and stores the
// resized JPEG next to the original.
func UploadThumbnail(ctx context.Context, objectName string, reader io.Reader, maxSize int) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return UploadFile(ctx, objectName, &buf, int64(buf.Len()), "image/jpeg")
}

// DeleteFile removes an object from the main bucket.
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, MainBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetPublicURL builds the public URL for an object key.
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UsePublicLink {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.ExternalEndpoint, MainBucket, objectName)
}
