// Package backup stores encrypted snapshots of chore data in S3-compatible
// object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/chorecal/internal/model"
)

// ErrNotConfigured is returned when bucket or credentials are missing.
var ErrNotConfigured = errors.New("backup not configured: bucket and credentials required")

const keyLayout = "2006-01-02T150405Z"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

func (c S3Config) configured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Object describes one stored snapshot.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Remote uploads and fetches sealed snapshots under a key prefix.
type Remote struct {
	client s3Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewRemote builds a Remote from cfg, or returns ErrNotConfigured.
func NewRemote(cfg S3Config, logger *slog.Logger) (*Remote, error) {
	if !cfg.configured() {
		return nil, ErrNotConfigured
	}
	return newRemote(newS3Client(cfg), cfg.Bucket, cfg.Prefix, logger), nil
}

func newRemote(client s3Client, bucket, prefix string, logger *slog.Logger) *Remote {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Remote{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "backup"),
	}
}

func newS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Key returns the object key for a snapshot taken at t. Keys sort in time
// order.
func (r *Remote) Key(t time.Time) string {
	return r.prefix + "chorecal-" + t.UTC().Format(keyLayout) + ".json.enc"
}

// Upload stores sealed under a key derived from at and returns the key.
func (r *Remote) Upload(ctx context.Context, sealed []byte, at time.Time) (string, error) {
	key := r.Key(at)
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	r.logger.Info("snapshot uploaded", "key", key, "bytes", len(sealed))
	return key, nil
}

// Download fetches the sealed snapshot stored at key.
func (r *Remote) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return data, nil
}

// List returns the snapshots under the prefix, oldest first.
func (r *Remote) List(ctx context.Context) ([]Object, error) {
	var objs []Object
	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3 objects: %w", err)
		}
		for _, o := range page.Contents {
			obj := Object{Key: aws.ToString(o.Key), Size: aws.ToInt64(o.Size)}
			if o.LastModified != nil {
				obj.LastModified = *o.LastModified
			}
			objs = append(objs, obj)
		}
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	return objs, nil
}

// Latest returns the key of the newest snapshot.
func (r *Remote) Latest(ctx context.Context) (string, error) {
	objs, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	if len(objs) == 0 {
		return "", errors.New("no snapshots stored")
	}
	return objs[len(objs)-1].Key, nil
}

// Prune deletes all but the newest keep snapshots and returns the deleted
// keys. Failed deletes are logged and skipped.
func (r *Remote) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	objs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(objs) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, o := range objs[:len(objs)-keep] {
		if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(o.Key),
		}); err != nil {
			r.logger.Error("failed to delete snapshot", "key", o.Key, "error", err)
			continue
		}
		deleted = append(deleted, o.Key)
	}
	return deleted, nil
}

// Snapshot serializes data and seals it with passphrase.
func Snapshot(data model.AppData, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("backup passphrase is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return Seal(raw, passphrase)
}

// ReadSnapshot opens a sealed snapshot and decodes it.
func ReadSnapshot(sealed []byte, passphrase string) (model.AppData, error) {
	raw, err := Open(sealed, passphrase)
	if err != nil {
		return model.AppData{}, err
	}
	var data model.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.AppData{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return data, nil
}
