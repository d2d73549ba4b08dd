package admin

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIEquipmentCSV(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	rec := env.get("/admin/api/equipment.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sampleCSV, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "injetoras.csv")

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/equipment.csv", nil)
	req.Header.Set("If-None-Match", etag)
	rec = env.do(req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAPIBackup(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	env.postForm("/admin/probe", nil)

	rec := env.get("/admin/api/backup.tar.gz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/gzip", rec.Header().Get("Content-Type"))

	gz, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	got := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		got[hdr.Name] = string(b)
	}
	assert.Equal(t, sampleCSV, got["injetoras.csv"])
	assert.Contains(t, got["probe.json"], `"10.0.0.1": true`)
	assert.Contains(t, got["probe.json"], `"checked_at"`)
}
