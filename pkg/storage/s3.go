package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type S3PresetStorageCredentials struct {
	AccessKey string
	SecretKey string
}

type S3PresetStorage struct {
	svc            *s3.Client
	bucket         string
	key            string
	localCachePath string
}

type S3PresetStorageOpts struct {
	Bucket         string
	Key            string
	Region         string
	Endpoint       string
	CachePath      string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// presetRange covers exactly one preset at the start of the object.
var presetRange = fmt.Sprintf("bytes=0-%d", common.PresetSize-1)

func NewS3PresetStorage(opts S3PresetStorageOpts) (*S3PresetStorage, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if opts.AccessKey != "" && opts.SecretKey != "" {
		accessKey = opts.AccessKey
		secretKey = opts.SecretKey
	}

	cfg, err := getAWSConfig(accessKey, secretKey, opts.Region, opts.Endpoint)
	if err != nil {
		return nil, err
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	// Check to see if we have access to the bucket
	_, err = svc.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(opts.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot access bucket <%s>: %v", opts.Bucket, err)
	}

	return &S3PresetStorage{
		svc:            svc,
		bucket:         opts.Bucket,
		key:            opts.Key,
		localCachePath: opts.CachePath,
	}, nil
}

func getAWSConfig(accessKey string, secretKey string, region string, endpoint string) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if endpoint != "" {
		endpointResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: endpoint,
			}, nil
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(endpointResolver))
	}

	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	return config.LoadDefaultConfig(context.TODO(), loadOpts...)
}

func (s3c *S3PresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	start := time.Now()

	data, err := s3c.read(ctx)
	metrics.RecordSourceRead(string(s3c.Mode()), int64(len(data)), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s3c *S3PresetStorage) read(ctx context.Context) ([]byte, error) {
	if s3c.localCachePath != "" {
		data, err := s3c.readCached(ctx)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, common.ErrTruncatedInput) {
			return nil, err
		}

		// Fall back to remote source if the local cache is unusable
		log.Warn().Err(err).Str("cache_path", s3c.localCachePath).Msg("preset cache unavailable, reading from s3")
	}

	return s3c.downloadPreset(ctx)
}

func (s3c *S3PresetStorage) downloadPreset(ctx context.Context) ([]byte, error) {
	resp, err := s3c.svc.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3c.bucket),
		Key:    aws.String(s3c.key),
		Range:  aws.String(presetRange),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s3c.bucket, s3c.key, err)
	}
	defer resp.Body.Close()

	data, err := readPreset(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s3c.bucket, s3c.key, err)
	}

	return data, nil
}

// readCached serves the preset from the local cache file, filling it first if
// it is missing. Concurrent processes coordinate through a lock file; the one
// that loses the race reads straight from s3.
func (s3c *S3PresetStorage) readCached(ctx context.Context) ([]byte, error) {
	if info, err := os.Stat(s3c.localCachePath); err == nil && info.Size() >= common.PresetSize {
		log.Debug().Str("cache_path", s3c.localCachePath).Msg("preset cache hit")
		return readLocal(s3c.localCachePath)
	}

	lockFilePath := fmt.Sprintf("%s.lock", s3c.localCachePath)
	fileLock := flock.New(lockFilePath)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("error while trying to acquire file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another process is already caching %s", s3c.localCachePath)
	}
	defer os.Remove(lockFilePath)
	defer fileLock.Unlock()

	tmpCacheFile := fmt.Sprintf("%s.%s", s3c.localCachePath, uuid.New().String()[:6])

	f, err := os.Create(tmpCacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %q: %w", tmpCacheFile, err)
	}
	defer f.Close()

	startTime := time.Now()
	downloader := manager.NewDownloader(s3c.svc)

	_, err = downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s3c.bucket),
		Key:    aws.String(s3c.key),
		Range:  aws.String(presetRange),
	})
	if err != nil {
		os.Remove(tmpCacheFile)
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	if err := os.Rename(tmpCacheFile, s3c.localCachePath); err != nil {
		os.Remove(tmpCacheFile)
		return nil, fmt.Errorf("failed to move downloaded file to cache path %q: %w", s3c.localCachePath, err)
	}

	log.Info().Msgf("preset <%v> cached in %v", s3c.localCachePath, time.Since(startTime))

	return readLocal(s3c.localCachePath)
}

func (s3c *S3PresetStorage) Location() string {
	return fmt.Sprintf("s3://%s/%s", s3c.bucket, s3c.key)
}

func (s3c *S3PresetStorage) Mode() common.StorageMode {
	return common.StorageModeS3
}

func (s3c *S3PresetStorage) Cleanup() error {
	return nil
}
