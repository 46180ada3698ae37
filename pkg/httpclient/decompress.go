package httpclient

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

// DecompressMiddleware inflates brotli and gzip bodies for clients that set
// their own Accept-Encoding header (the transport only handles gzip when it
// negotiated the encoding itself).
func DecompressMiddleware(c *resty.Client, resp *resty.Response) error {
	encoding := strings.ToLower(resp.Header().Get("Content-Encoding"))
	if encoding == "" || len(resp.Body()) == 0 {
		return nil
	}

	var reader io.ReadCloser
	var err error

	switch encoding {
	case "br":
		reader = io.NopCloser(brotli.NewReader(bytes.NewReader(resp.Body())))
	case "gzip":
		reader, err = gzip.NewReader(bytes.NewReader(resp.Body()))
		if err != nil {
			return err
		}
		defer reader.Close()
	default:
		return nil
	}

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	resp.SetBody(decompressed)
	resp.Header().Del("Content-Encoding")
	return nil
}
