package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const pdfContentType = "application/pdf"

// uploader is the part of manager.Uploader S3Store uses.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Config holds the settings for an S3Store.
type S3Config struct {
	Bucket        string
	Region        string
	AccessKey     string // empty uses the default AWS credential chain
	SecretKey     string
	Prefix        string // key prefix, e.g. "outputted_resumes"
	PublicBaseURL string // empty uses the bucket's virtual-hosted URL
}

// S3Store uploads artifacts to a bucket with conditional writes so an existing
// key is never replaced.
type S3Store struct {
	up      uploader
	cfg     S3Config
	now     clock
	timeout time.Duration
}

// NewS3Store builds an S3Store from static credentials or the default chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not set")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3Store(manager.NewUploader(s3.NewFromConfig(awsCfg)), cfg), nil
}

func newS3Store(up uploader, cfg S3Config) *S3Store {
	return &S3Store{up: up, cfg: cfg, now: time.Now, timeout: 2 * time.Minute}
}

// Save renders into memory and uploads under a fresh key.
func (s *S3Store) Save(ctx context.Context, originalName string, render RenderFunc) (*Artifact, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	base := SanitizeFilename(originalName)
	ms := s.now().UnixMilli()

	for attempt := 0; ; attempt++ {
		name := ArtifactName(ms, base)
		key := s.key(name)

		err := s.put(ctx, key, data)
		if err == nil {
			return &Artifact{Name: name, Location: s.location(key), Size: int64(len(data))}, nil
		}
		if !isPreconditionFailed(err) || attempt >= maxNameAttempts {
			return nil, &WriteError{Name: key, Message: "s3 upload failed", Cause: err}
		}
		ms++
	}
}

func (s *S3Store) put(ctx context.Context, key string, data []byte) error {
	ctxUpload, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.up.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(pdfContentType),
		IfNoneMatch: aws.String("*"),
	})
	return err
}

func (s *S3Store) key(name string) string {
	prefix := strings.Trim(s.cfg.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (s *S3Store) location(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
}

// isPreconditionFailed reports whether err is S3 refusing a write because the key exists.
func isPreconditionFailed(err error) bool {
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		return withStatus.HTTPStatusCode() == http.StatusPreconditionFailed
	}
	return false
}
