// Package tarball packs inventory snapshots into reproducible tar.gz archives.
package tarball

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// Build writes every entry of files into a tar.gz with fixed timestamps and
// owners, in name order, so the same input always gives the same bytes.
// It returns the archive and its sha256 in hex.
func Build(files map[string][]byte) ([]byte, string, error) {
	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	gz.ModTime = time.Unix(0, 0)
	tw := tar.NewWriter(gz)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		clean := path.Clean(strings.TrimLeft(strings.ReplaceAll(name, "\\", "/"), "/"))
		if clean == "" || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
			_ = tw.Close()
			_ = gz.Close()
			return nil, "", fmt.Errorf("tarball: bad entry name %q", name)
		}
		data := files[name]
		hdr := &tar.Header{
			Name:    clean,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: time.Unix(0, 0),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			_ = tw.Close()
			_ = gz.Close()
			return nil, "", err
		}
		if _, err := tw.Write(data); err != nil {
			_ = tw.Close()
			_ = gz.Close()
			return nil, "", err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, "", err
	}
	if err := gz.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), Sum(buf.Bytes()), nil
}

// Sum is the hex sha256 used for archive checksums and ETags.
func Sum(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}
