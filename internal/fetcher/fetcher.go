// Package fetcher loads packed, shipped and order extracts from CSV and XLSX
// files, downloading them first when the source is an http(s) or ftp URL.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher downloads a remote extract.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// RemoteOptions configures the fetchers used for URL sources.
type RemoteOptions struct {
	HTTP HTTPOptions
	FTP  FTPOptions
}

// IsRemote reports whether src is a URL this package can download.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// Localize returns a local path for src. Local paths are returned unchanged;
// URLs are downloaded into dir, keeping the file name from the URL path so the
// extension still selects the parser.
func Localize(ctx context.Context, src, dir string, opts RemoteOptions) (string, error) {
	if !IsRemote(src) {
		if _, err := os.Stat(src); err != nil {
			return "", eris.Wrapf(err, "fetcher: stat %s", src)
		}
		return src, nil
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: parse url")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", eris.Errorf("fetcher: no file name in %s", src)
	}

	var f Fetcher
	if strings.EqualFold(u.Scheme, "ftp") {
		f = NewFTPFetcher(opts.FTP)
	} else {
		f = NewHTTPFetcher(opts.HTTP)
	}

	dst := filepath.Join(dir, name)
	n, err := f.DownloadToFile(ctx, src, dst)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: download %s", u.Redacted())
	}
	zap.L().Info("fetcher: downloaded source",
		zap.String("url", u.Redacted()),
		zap.String("path", dst),
		zap.Int64("bytes", n),
	)
	return dst, nil
}
