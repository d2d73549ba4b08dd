package tarball

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, archive []byte) map[string]string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	out := map[string]string{}
	var order []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[hdr.Name] = string(b)
		order = append(order, hdr.Name)
	}
	out["#order"] = join(order)
	return out
}

func join(s []string) string {
	var b bytes.Buffer
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v)
	}
	return b.String()
}

func TestBuildIsDeterministic(t *testing.T) {
	files := map[string][]byte{
		"probe.json":    []byte(`{}`),
		"injetoras.csv": []byte("tag\nA\n"),
	}
	a1, sum1, err := Build(files)
	require.NoError(t, err)
	a2, sum2, err := Build(files)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, sum1, sum2)
	assert.Equal(t, Sum(a1), sum1)
	assert.Len(t, sum1, 64)

	got := entries(t, a1)
	assert.Equal(t, "injetoras.csv,probe.json", got["#order"])
	assert.Equal(t, "tag\nA\n", got["injetoras.csv"])
}

func TestBuildCleansNames(t *testing.T) {
	a, _, err := Build(map[string][]byte{"/backup//injetoras.csv": []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "x", entries(t, a)["backup/injetoras.csv"])
}

func TestBuildRejectsEscapingNames(t *testing.T) {
	for _, name := range []string{"", ".", "..", "../etc/passwd"} {
		_, _, err := Build(map[string][]byte{name: []byte("x")})
		assert.Error(t, err, name)
	}
}
