package storage

import (
	"context"
	"net/http"
	"testing"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetURL = "http://mockcdn.internal/presets/clean.h5e"

func newMockedHTTPStorage(t *testing.T) *HTTPPresetStorage {
	t.Helper()

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	s, err := NewHTTPPresetStorage(HTTPPresetStorageOpts{URL: presetURL, Client: client})
	require.NoError(t, err)
	return s
}

func TestHTTPPresetStorage_ReadPreset_Scenarios(t *testing.T) {
	t.Run("PartialContent", func(t *testing.T) {
		s := newMockedHTTPStorage(t)

		httpmock.RegisterResponder(http.MethodGet, presetURL, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "bytes=0-4135", req.Header.Get("Range"))
			return httpmock.NewBytesResponse(http.StatusPartialContent, presetBytes("Clean")), nil
		})

		data, err := s.ReadPreset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, presetBytes("Clean"), data)
		assert.Equal(t, 1, httpmock.GetTotalCallCount())
	})

	t.Run("RangeIgnored", func(t *testing.T) {
		s := newMockedHTTPStorage(t)

		body := append(presetBytes("Whole"), []byte("trailing data")...)
		httpmock.RegisterResponder(http.MethodGet, presetURL, httpmock.NewBytesResponder(http.StatusOK, body))

		data, err := s.ReadPreset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, presetBytes("Whole"), data)
	})

	t.Run("ShortBody", func(t *testing.T) {
		s := newMockedHTTPStorage(t)

		httpmock.RegisterResponder(http.MethodGet, presetURL, httpmock.NewBytesResponder(http.StatusPartialContent, make([]byte, 64)))

		_, err := s.ReadPreset(context.Background())
		require.ErrorIs(t, err, common.ErrTruncatedInput)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newMockedHTTPStorage(t)

		httpmock.RegisterResponder(http.MethodGet, presetURL, httpmock.NewStringResponder(http.StatusNotFound, "not found"))

		_, err := s.ReadPreset(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code 404")
	})
}

func TestNewHTTPPresetStorage_EmptyURL(t *testing.T) {
	_, err := NewHTTPPresetStorage(HTTPPresetStorageOpts{})
	require.ErrorIs(t, err, common.ErrUnsupportedLocation)
}
