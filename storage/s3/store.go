// Package s3 stores club snapshots as objects in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"badminton-club/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// Options configures the bucket layout and client.
type Options struct {
	Bucket  string
	Region  string
	Prefix  string
	Tracing bool // wrap the client with X-Ray subsegments
}

// Store keeps each slot at <prefix>/<slot>.json.
type Store struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// Open builds an S3 client from the default credential chain.
func Open(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	cfg := aws.NewConfig()
	if opts.Region != "" {
		cfg = cfg.WithRegion(opts.Region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	client := awss3.New(sess)
	if opts.Tracing {
		xray.AWS(client.Client)
	}
	return New(client, opts.Bucket, opts.Prefix), nil
}

// New wraps an existing client.
func New(client s3iface.S3API, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *Store) key(slot string) string {
	if s.prefix == "" {
		return slot + ".json"
	}
	return path.Join(s.prefix, slot+".json")
}

// Load returns the object stored for slot.
func (s *Store) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}
	out, err := s.client.GetObjectWithContext(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(slot)),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == awss3.ErrCodeNoSuchKey {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot object: %w", err)
	}
	return data, nil
}

// Save overwrites the object stored for slot.
func (s *Store) Save(ctx context.Context, slot string, data []byte) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	_, err := s.client.PutObjectWithContext(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(slot)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
