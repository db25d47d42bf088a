package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/platefinder/backend/config"
)

// ImageService uploads recipe images to S3. When no bucket is configured
// the service is disabled and uploads report ErrUploadsDisabled.
type ImageService struct {
	s3Config *config.S3Config
}

var ErrUploadsDisabled = fmt.Errorf("image uploads are not configured")

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Enabled reports whether an upload target is configured.
func (s *ImageService) Enabled() bool {
	return s.s3Config != nil && s.s3Config.Client != nil
}

// UploadRecipeImage uploads image bytes under the given key and returns the
// public URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, imageData []byte, fileName, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrUploadsDisabled
	}

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Uploaded recipe image to S3: %s", publicURL)
	return publicURL, nil
}
