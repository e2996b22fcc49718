package r2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	appconfig "github.com/HaiFongPan/r2review/internal/config"
)

var (
	// ErrNotFound is returned when the object does not exist.
	ErrNotFound = errors.New("asset not found")
	// ErrTooLarge is returned by GetAsset when the object exceeds the read limit.
	ErrTooLarge = errors.New("asset too large")
)

// S3API is the part of the S3 client the workspace uses, so tests can fake it.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner signs time-limited GET requests.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Client wraps the S3 client for R2 operations on the review bucket
type Client struct {
	api       S3API
	presigner Presigner
	bucket    string
}

// NewClient creates a new R2 client from configuration
func NewClient(ctx context.Context, cfg *appconfig.R2Config, maxRetries int) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		config.WithRegion(cfg.Region),
		config.WithRetryMaxAttempts(maxRetries+1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointFor(cfg))
	})

	return NewClientWithAPI(s3Client, s3.NewPresignClient(s3Client), cfg.BucketName), nil
}

// NewClientWithAPI builds a client over an existing S3 implementation.
func NewClientWithAPI(api S3API, presigner Presigner, bucket string) *Client {
	return &Client{api: api, presigner: presigner, bucket: bucket}
}

func endpointFor(cfg *appconfig.R2Config) string {
	if cfg.Endpoint != "" && cfg.Endpoint != "auto" {
		return cfg.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
}

// Bucket returns the configured bucket name
func (c *Client) Bucket() string {
	return c.bucket
}

// ListAssets returns every object under prefix, sorted by key.
func (c *Client) ListAssets(ctx context.Context, prefix string) ([]Asset, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var assets []Asset
	paginator := s3.NewListObjectsV2Paginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", c.bucket, err)
		}
		for _, obj := range page.Contents {
			// folder placeholders
			if strings.HasSuffix(aws.ToString(obj.Key), "/") {
				continue
			}
			assets = append(assets, assetFromObject(obj))
		}
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Key < assets[j].Key })
	logrus.Debugf("r2: listed %d assets under %q", len(assets), prefix)
	return assets, nil
}

// HeadAsset returns the metadata of key.
func (c *Client) HeadAsset(ctx context.Context, key string) (Asset, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Asset{}, wrapNotFound(key, err)
	}
	return assetFromHead(key, out), nil
}

// Exists reports whether key is present in the bucket.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.HeadAsset(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// GetAsset downloads key. When maxBytes is positive, larger objects fail with ErrTooLarge.
func (c *Client) GetAsset(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapNotFound(key, err)
	}
	defer out.Body.Close()

	var body io.Reader = out.Body
	if maxBytes > 0 {
		if out.ContentLength != nil && *out.ContentLength > maxBytes {
			return nil, fmt.Errorf("%s is %d bytes: %w", key, *out.ContentLength, ErrTooLarge)
		}
		body = io.LimitReader(out.Body, maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", key, maxBytes, ErrTooLarge)
	}
	return data, nil
}

// PutAsset uploads body to key.
func (c *Client) PutAsset(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteAsset removes key from the bucket.
func (c *Client) DeleteAsset(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	logrus.Infof("r2: deleted %s", key)
	return nil
}

// PresignGet returns a GET URL for key that stays valid for expires.
func (c *Client) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if c.presigner == nil {
		return "", errors.New("presigning is not available")
	}
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return req.URL, nil
}

func wrapNotFound(key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	// HEAD responses carry no body, so the SDK sometimes only has the status code
	return strings.Contains(err.Error(), "StatusCode: 404") || strings.Contains(err.Error(), "NotFound")
}
