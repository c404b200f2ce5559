package s3

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/pkg/config"
)

const defaultUploadExpiry = 15 * time.Minute

// presignAPI is the subset of the SDK presign client we rely on.
type presignAPI interface {
	PresignPutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Client issues presigned upload URLs against the configured media bucket.
type Client struct {
	presigner    presignAPI
	bucket       string
	region       string
	uploadExpiry time.Duration
}

// PresignedUpload is the response handed to the dashboard: PUT the bytes to
// UploadURL, then reference ObjectURL from the journal or avatar field.
type PresignedUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	ObjectURL string `json:"object_url"`
}

// New loads AWS configuration and builds the media storage client.
func New(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	raw := awss3.NewFromConfig(awsCfg)
	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = defaultUploadExpiry
	}

	return &Client{
		presigner:    awss3.NewPresignClient(raw),
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		uploadExpiry: expiry,
	}, nil
}

// PresignUpload generates a one-time PUT URL for an object under the given
// prefix (e.g. "journal", "avatar"). The object key is always server-chosen.
func (c *Client) PresignUpload(ctx context.Context, prefix, filename, contentType string) (*PresignedUpload, error) {
	ext := path.Ext(filename)
	key := path.Join(prefix, uuid.NewString()+ext)

	req, err := c.presigner.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, func(opts *awss3.PresignOptions) {
		opts.Expires = c.uploadExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	return &PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		ObjectURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key),
	}, nil
}
