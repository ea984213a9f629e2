package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/registryauth"
)

// PresetStorageInterface fetches the raw bytes of a single preset. ReadPreset
// returns exactly common.PresetSize bytes or an error.
type PresetStorageInterface interface {
	ReadPreset(ctx context.Context) ([]byte, error)
	Location() string
	Mode() common.StorageMode
	Cleanup() error
}

type PresetStorageCredentials struct {
	S3 *S3PresetStorageCredentials
}

type PresetStorageOpts struct {
	Location    string
	CachePath   string
	Credentials PresetStorageCredentials
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// OCIInsecure allows plain HTTP to the registry of an oci:// location.
	OCIInsecure bool
	// OCIAnonymous skips every credential source for oci:// locations.
	OCIAnonymous bool
}

// NewPresetStorage picks a storage backend from the scheme of opts.Location:
// s3://bucket/key, http(s)://..., oci://registry/repo:tag,
// oci-layout://dir[:tag], or a local path (optionally prefixed with file://).
func NewPresetStorage(opts PresetStorageOpts) (PresetStorageInterface, error) {
	mode, target, err := parseLocation(opts.Location)
	if err != nil {
		return nil, err
	}

	switch mode {
	case common.StorageModeLocal:
		return NewLocalPresetStorage(LocalPresetStorageOpts{Path: target})
	case common.StorageModeS3:
		bucket, key, ok := strings.Cut(target, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: s3 location must be s3://bucket/key, got %q", common.ErrUnsupportedLocation, opts.Location)
		}

		s3Opts := S3PresetStorageOpts{
			Bucket:         bucket,
			Key:            key,
			Region:         opts.S3Region,
			Endpoint:       opts.S3Endpoint,
			ForcePathStyle: opts.S3PathStyle,
			CachePath:      opts.CachePath,
		}
		if opts.Credentials.S3 != nil {
			s3Opts.AccessKey = opts.Credentials.S3.AccessKey
			s3Opts.SecretKey = opts.Credentials.S3.SecretKey
		}
		return NewS3PresetStorage(s3Opts)
	case common.StorageModeHTTP:
		return NewHTTPPresetStorage(HTTPPresetStorageOpts{URL: target})
	case common.StorageModeOCI:
		ociOpts := OCIPresetStorageOpts{Reference: target, Insecure: opts.OCIInsecure}
		if opts.OCIAnonymous {
			ociOpts.Keychain = registryauth.NewKeychain(registryauth.NewPublicOnlyProvider())
		}
		return NewOCIPresetStorage(ociOpts)
	case common.StorageModeOCILayout:
		layoutPath, tag := splitLayoutTag(target)
		return NewOCILayoutPresetStorage(OCILayoutPresetStorageOpts{LayoutPath: layoutPath, Tag: tag})
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedLocation, opts.Location)
	}
}

func parseLocation(location string) (common.StorageMode, string, error) {
	if location == "" {
		return "", "", fmt.Errorf("%w: empty location", common.ErrUnsupportedLocation)
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return common.StorageModeLocal, location, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		return common.StorageModeLocal, rest, nil
	case "s3":
		return common.StorageModeS3, rest, nil
	case "http", "https":
		if _, err := url.Parse(location); err != nil {
			return "", "", fmt.Errorf("%w: %v", common.ErrUnsupportedLocation, err)
		}
		return common.StorageModeHTTP, location, nil
	case "oci":
		return common.StorageModeOCI, rest, nil
	case "oci-layout":
		return common.StorageModeOCILayout, rest, nil
	default:
		return "", "", fmt.Errorf("%w: unknown scheme %q", common.ErrUnsupportedLocation, scheme)
	}
}

// readPreset reads exactly one preset from r. A stream that ends early is
// reported as ErrTruncatedInput.
func readPreset(r io.Reader) ([]byte, error) {
	buf := make([]byte, common.PresetSize)
	n, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return nil, fmt.Errorf("%w: read %d of %d bytes", common.ErrTruncatedInput, n, common.PresetSize)
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}
