package httpclient

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressed(t *testing.T, encoding, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "br":
		w := brotli.NewWriter(&buf)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	return buf.Bytes()
}

func TestDecompressMiddleware(t *testing.T) {
	for _, encoding := range []string{"br", "gzip"} {
		t.Run(encoding, func(t *testing.T) {
			payload := compressed(t, encoding, `{"rc":0}`)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(payload)
			}))
			defer srv.Close()

			client := resty.New().SetHeader("Accept-Encoding", "gzip, br")
			client.OnAfterResponse(DecompressMiddleware)

			resp, err := client.R().Get(srv.URL)
			require.NoError(t, err)
			assert.Equal(t, `{"rc":0}`, string(resp.Body()))
		})
	}
}
