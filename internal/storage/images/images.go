// Package images stores uploaded event images in an S3 compatible bucket and
// returns the public URL they can be served from.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"devEvents/internal/config"
)

var (
	ErrEmptyImage = errors.New("image is empty")
	ErrNotAnImage = errors.New("file is not an image")
	ErrNoBucket   = errors.New("image bucket is not configured")
)

// PutObjectAPI is the part of the S3 client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client  PutObjectAPI
	bucket  string
	region  string
	folder  string
	baseURL string
	newKey  func() string
}

func New(cfg config.ImageStore) (*Store, error) {
	const op = "storage.images.New"

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoBucket)
	}

	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg), nil
}

func NewWithClient(client PutObjectAPI, cfg config.ImageStore) *Store {
	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		folder:  cfg.Folder,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		newKey:  uuid.NewString,
	}
}

// Upload writes data under a fresh key and returns its durable URL. The
// content type is sniffed from the bytes, not taken from the client.
func (s *Store) Upload(ctx context.Context, data []byte) (string, error) {
	const op = "storage.images.Upload"

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyImage)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%s: %w: detected %s", op, ErrNotAnImage, mtype.String())
	}

	key := path.Join(s.folder, s.newKey()+mtype.Extension())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to upload image: %w", op, err)
	}

	return s.url(key), nil
}

func (s *Store) url(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
