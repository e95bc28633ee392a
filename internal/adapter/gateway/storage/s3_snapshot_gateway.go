package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// uploadedAtKey is the object metadata entry carrying the upload time
const uploadedAtKey = "uploaded-at"

// S3SnapshotGateway implements SnapshotGateway using AWS S3
// Bucket structure: s3://<bucket>/<prefix>/<key>
// Request metadata is stored as S3 object metadata.
type S3SnapshotGateway struct {
	client     S3API // Use interface for testability
	bucketName string
	prefix     string // Optional prefix for all keys (e.g., "deetask/widgets")
	now        func() time.Time
}

// S3Config holds S3 snapshot gateway configuration
type S3Config struct {
	BucketName string // S3 bucket name
	Prefix     string // Optional key prefix
	Region     string // AWS region (optional, uses default if empty)
}

// NewS3SnapshotGateway creates a new S3-based snapshot gateway
func NewS3SnapshotGateway(ctx context.Context, cfg S3Config) (*S3SnapshotGateway, error) {
	if cfg.BucketName == "" {
		return nil, model.NewValidation("s3 bucket name is required")
	}

	// Load AWS configuration
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	// Override region if specified
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return NewS3SnapshotGatewayWithClient(s3.NewFromConfig(awsCfg), cfg.BucketName, cfg.Prefix), nil
}

// NewS3SnapshotGatewayWithClient creates a new S3-based snapshot gateway with custom S3 client
// This is primarily used for testing with mock S3 clients
func NewS3SnapshotGatewayWithClient(client S3API, bucketName, prefix string) *S3SnapshotGateway {
	return &S3SnapshotGateway{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
		now:        time.Now,
	}
}

// SaveSnapshot uploads a snapshot, replacing any previous object under the key
func (g *S3SnapshotGateway) SaveSnapshot(ctx context.Context, req output.SaveSnapshotRequest) (*output.SnapshotMetadata, error) {
	key := g.buildKey(req.Key)
	uploadedAt := g.now()

	s3Metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		s3Metadata[k] = v
	}
	s3Metadata[uploadedAtKey] = uploadedAt.UTC().Format(time.RFC3339)

	input := &s3.PutObjectInput{
		Bucket:   aws.String(g.bucketName),
		Key:      aws.String(key),
		Body:     bytes.NewReader(req.Content),
		Metadata: s3Metadata,
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}
	if _, err := g.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload to S3: %w", err)
	}

	return &output.SnapshotMetadata{
		Key:         req.Key,
		StoragePath: g.storagePath(key),
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		UploadedAt:  uploadedAt,
		Metadata:    req.Metadata,
	}, nil
}

// LoadSnapshot downloads a snapshot; NotFound if the key does not exist
func (g *S3SnapshotGateway) LoadSnapshot(ctx context.Context, key string) (*output.Snapshot, error) {
	fullKey := g.buildKey(key)
	result, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucketName),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, model.NewNotFound("Snapshot", key)
		}
		return nil, fmt.Errorf("download from S3: %w", err)
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	metadata := output.SnapshotMetadata{
		Key:         key,
		StoragePath: g.storagePath(fullKey),
		ContentType: aws.ToString(result.ContentType),
		Size:        int64(len(content)),
		Metadata:    make(map[string]string, len(result.Metadata)),
	}
	for k, v := range result.Metadata {
		if k == uploadedAtKey {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				metadata.UploadedAt = t
			}
			continue
		}
		metadata.Metadata[k] = v
	}
	return &output.Snapshot{Content: content, Metadata: metadata}, nil
}

// buildKey builds an S3 key with the configured prefix
func (g *S3SnapshotGateway) buildKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if g.prefix == "" {
		return key
	}
	return g.prefix + "/" + key
}

func (g *S3SnapshotGateway) storagePath(key string) string {
	return fmt.Sprintf("s3://%s/%s", g.bucketName, key)
}
