package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestS3PresetStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "localstack/localstack:3",
		ExposedPorts: []string{"4566/tcp"},                                                  // Expose the edge service port
		WaitingFor:   wait.ForListeningPort("4566/tcp").WithStartupTimeout(2 * time.Minute), // Wait specifically for the edge service
	}
	localstackContainer, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "Failed to start localstack container")
	defer func() {
		if err := localstackContainer.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate localstack container: %s", err)
		}
	}()

	hostPort, err := localstackContainer.MappedPort(ctx, "4566/tcp")
	require.NoError(t, err)
	hostIP, err := localstackContainer.Host(ctx)
	require.NoError(t, err)
	endpoint := "http://" + hostIP + ":" + hostPort.Port()

	accessKey := "test"
	secretKey := "test"
	region := "us-east-1"

	cfg, err := getAWSConfig(accessKey, secretKey, region, endpoint)
	require.NoError(t, err)

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true // Necessary for LocalStack
	})

	bucketName := "test-preset-bucket"
	_, err = s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if !strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") &&
			!strings.Contains(err.Error(), "bucket already exists") {
			require.NoError(t, err, "Failed to create bucket")
		}
	}

	put := func(key string, data []byte) {
		_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		require.NoError(t, err)
	}

	put("presets/clean.h5e", append(presetBytes("S3 Clean"), []byte("trailer")...))
	put("presets/short.h5e", make([]byte, 100))

	newStorage := func(key, cachePath string) *S3PresetStorage {
		s, err := NewS3PresetStorage(S3PresetStorageOpts{
			Bucket:         bucketName,
			Key:            key,
			Region:         region,
			Endpoint:       endpoint,
			AccessKey:      accessKey,
			SecretKey:      secretKey,
			ForcePathStyle: true,
			CachePath:      cachePath,
		})
		require.NoError(t, err)
		return s
	}

	t.Run("Direct", func(t *testing.T) {
		s := newStorage("presets/clean.h5e", "")

		data, err := s.ReadPreset(ctx)
		require.NoError(t, err)
		assert.Equal(t, presetBytes("S3 Clean"), data)
		assert.Equal(t, "s3://test-preset-bucket/presets/clean.h5e", s.Location())
	})

	t.Run("Truncated", func(t *testing.T) {
		s := newStorage("presets/short.h5e", "")

		_, err := s.ReadPreset(ctx)
		require.ErrorIs(t, err, common.ErrTruncatedInput)
	})

	t.Run("CacheFile", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "clean.h5e")
		s := newStorage("presets/clean.h5e", cachePath)

		data, err := s.ReadPreset(ctx)
		require.NoError(t, err)
		assert.Equal(t, presetBytes("S3 Clean"), data)

		cached, err := os.ReadFile(cachePath)
		require.NoError(t, err)
		assert.Equal(t, presetBytes("S3 Clean"), cached)

		_, err = os.Stat(cachePath + ".lock")
		assert.True(t, os.IsNotExist(err), "lock file should be removed")

		// Served from the cache file from now on
		require.NoError(t, os.WriteFile(cachePath, presetBytes("From Cache"), 0644))
		data, err = s.ReadPreset(ctx)
		require.NoError(t, err)
		assert.Equal(t, presetBytes("From Cache"), data)
	})

	t.Run("CacheLockedByOtherProcess", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "clean.h5e")
		lock := flock.New(cachePath + ".lock")
		locked, err := lock.TryLock()
		require.NoError(t, err)
		require.True(t, locked)
		defer lock.Unlock()

		s := newStorage("presets/clean.h5e", cachePath)

		data, err := s.ReadPreset(ctx)
		require.NoError(t, err)
		assert.Equal(t, presetBytes("S3 Clean"), data)

		_, err = os.Stat(cachePath)
		assert.True(t, os.IsNotExist(err), "cache should not be written without the lock")
	})

	t.Run("MissingBucket", func(t *testing.T) {
		_, err := NewS3PresetStorage(S3PresetStorageOpts{
			Bucket:         "missing-bucket",
			Key:            "presets/clean.h5e",
			Region:         region,
			Endpoint:       endpoint,
			AccessKey:      accessKey,
			SecretKey:      secretKey,
			ForcePathStyle: true,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot access bucket")
	})
}
