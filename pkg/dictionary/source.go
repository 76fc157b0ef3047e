package dictionary

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// userAgent identifies the tool when streaming dumps from kaikki.org.
const userAgent = "wikianki-cli"

// OpenSource opens a Kaikki dump from a local path or an http(s) URL and
// transparently decompresses .gz, .bz2 and .tgz/.tar.gz payloads. The
// returned ReadCloser releases every underlying resource.
func OpenSource(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	var (
		raw  io.ReadCloser
		name = pathOrURL
		err  error
	)
	if isHTTPURL(pathOrURL) {
		raw, err = openHTTP(ctx, pathOrURL)
		if u, perr := url.Parse(pathOrURL); perr == nil {
			name = u.Path
		}
	} else {
		raw, err = os.Open(pathOrURL)
	}
	if err != nil {
		return nil, err
	}

	rc, err := decompress(raw, strings.ToLower(path.Base(name)))
	if err != nil {
		raw.Close()
		return nil, err
	}
	return rc, nil
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func openHTTP(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return resp.Body, nil
}

// readCloser pairs a decoding reader with the closers it sits on.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func decompress(raw io.ReadCloser, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".tgz") || strings.HasSuffix(name, ".tar.gz"):
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		member, err := firstJSONMember(tar.NewReader(gz))
		if err != nil {
			gz.Close()
			return nil, err
		}
		return &readCloser{Reader: member, closers: []io.Closer{gz, raw}}, nil
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, raw}}, nil
	case strings.HasSuffix(name, ".bz2"):
		return &readCloser{Reader: bzip2.NewReader(raw), closers: []io.Closer{raw}}, nil
	default:
		return raw, nil
	}
}

// firstJSONMember advances tr to the first regular .jsonl or .json file.
func firstJSONMember(tr *tar.Reader) (io.Reader, error) {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("no json file found in archive")
		}
		if err != nil {
			return nil, fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag == tar.TypeReg && (strings.HasSuffix(header.Name, ".jsonl") || strings.HasSuffix(header.Name, ".json")) {
			return tr, nil
		}
	}
}
