// Remote database locations: S3 objects and HTTP downloads.
package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrObjectNotFound = errors.New("remote object not found")

// S3Config contains S3 authentication configuration.
// Empty fields fall back to the AWS default configuration chain.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
}

// urlScheme represents the scheme of a URL
type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local" // no scheme, local path
)

// detectScheme detects the URL scheme from a path string
func detectScheme(path string) urlScheme {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lowerPath, "s3://"):
		return schemeS3
	case strings.HasPrefix(lowerPath, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lowerPath, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lowerPath, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// Location is the local file backing a user-supplied database path
type Location struct {
	Source    string // what the user typed
	LocalPath string // file handed to the engine, empty for in-memory

	scheme  urlScheme
	cfg     *S3Config
	tempDir string
}

// IsMemory reports whether the database lives only in memory
func (location *Location) IsMemory() bool {
	return location.LocalPath == ""
}

// IsRemote reports whether the database was downloaded for this session
func (location *Location) IsRemote() bool {
	return location.tempDir != ""
}

// ResolveLocation maps source to a local file, downloading remote databases
// into a temporary directory. A missing S3 object starts an empty database.
func ResolveLocation(source string, cfg *S3Config) (*Location, error) {
	location := &Location{
		Source: source,
		scheme: detectScheme(source),
		cfg:    cfg,
	}

	switch location.scheme {
	case schemeLocal:
		location.LocalPath = source
		return location, nil

	case schemeFile:
		location.LocalPath = strings.TrimPrefix(source, "file://")
		return location, nil

	case schemeHTTP, schemeHTTPS, schemeS3:
		if err := location.download(); err != nil {
			location.Close()
			return nil, err
		}
		return location, nil

	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", source)
	}
}

func (location *Location) download() error {
	tempDir, err := os.MkdirTemp("", "liteshell-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	location.tempDir = tempDir
	location.LocalPath = filepath.Join(tempDir, remoteBaseName(location.Source))

	reader, err := openRemoteReader(location.Source, location.cfg)
	if errors.Is(err, ErrObjectNotFound) && location.scheme == schemeS3 {
		return nil
	}
	if err != nil {
		return err
	}
	defer reader.Close()

	file, err := os.Create(location.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to create local copy: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("failed to download %s: %w", location.Source, err)
	}
	return file.Close()
}

// Sync uploads the local copy back to S3. Other locations are left alone;
// HTTP downloads are read-only snapshots.
func (location *Location) Sync() error {
	if location.scheme != schemeS3 {
		return nil
	}

	local, err := os.Open(location.LocalPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read local copy: %w", err)
	}
	defer local.Close()

	writer, err := openS3Writer(location.Source, location.cfg)
	if err != nil {
		return err
	}

	if _, err := io.Copy(writer, local); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload %s: %w", location.Source, err)
	}
	return writer.Close()
}

// Close removes any temporary copy
func (location *Location) Close() error {
	if location.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(location.tempDir)
	location.tempDir = ""
	return err
}

// remoteBaseName picks a file name for the local copy of a URL
func remoteBaseName(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "." || name == "/" || name == "" || strings.HasSuffix(trimmed, "/") {
		return "database"
	}
	return name
}

// openRemoteReader opens the object behind an http(s):// or s3:// URL
func openRemoteReader(url string, cfg *S3Config) (io.ReadCloser, error) {
	if detectScheme(url) == schemeS3 {
		return openS3Reader(url, cfg)
	}
	return openHTTPReader(url)
}

// openHTTPReader opens an HTTP GET reader
func openHTTPReader(url string) (io.ReadCloser, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute, // generous timeout for large files
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts
func parseS3URL(url string) (bucket, key string, err error) {
	path := url[len("s3://"):]
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// getS3Client creates an S3 client with the given configuration
func getS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg != nil && cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// openS3Reader opens a reader for an S3 object
func openS3Reader(url string, cfg *S3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, url)
		}
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}

	return resp.Body, nil
}

// s3Writer buffers the object and uploads it on Close
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, fmt.Errorf("writer is closed")
	}
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buffer),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// openS3Writer opens a writer for an S3 object
func openS3Writer(url string, cfg *S3Config) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &s3Writer{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		buffer: make([]byte, 0),
	}, nil
}
