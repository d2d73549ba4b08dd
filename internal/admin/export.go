package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"injdash/internal/logs"
	"injdash/internal/repo"
	"injdash/internal/tarball"
)

// APIEquipmentCSV serves the inventory in its on-disk format.
func (h *Handler) APIEquipmentCSV(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := repo.WriteCSV(&buf, inv); err != nil {
		logs.Logger.Errorf("admin: export csv: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	serveDownload(w, r, buf.Bytes(), "text/csv; charset=utf-8", "injetoras.csv")
}

// APIBackup bundles the inventory and the last probe batch into one archive.
func (h *Handler) APIBackup(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	var csvBuf bytes.Buffer
	if err := repo.WriteCSV(&csvBuf, inv); err != nil {
		logs.Logger.Errorf("admin: backup csv: %v", err)
		http.Error(w, "backup failed", http.StatusInternalServerError)
		return
	}

	session := probeSession{}
	if res, at, ok := h.d.Session.Probe(); ok {
		session = probeSession{Results: res, CheckedAt: &at}
	}
	probeJSON, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		http.Error(w, "backup failed", http.StatusInternalServerError)
		return
	}

	archive, _, err := tarball.Build(map[string][]byte{
		"injetoras.csv": csvBuf.Bytes(),
		"probe.json":    probeJSON,
	})
	if err != nil {
		logs.Logger.Errorf("admin: backup archive: %v", err)
		http.Error(w, "backup failed", http.StatusInternalServerError)
		return
	}
	name := "injdash-backup-" + time.Now().Format("20060102-150405") + ".tar.gz"
	serveDownload(w, r, archive, "application/gzip", name)
}

// serveDownload sends body as an attachment with a sha256 ETag and answers
// 304 when the client already holds the same bytes.
func serveDownload(w http.ResponseWriter, r *http.Request, body []byte, contentType, filename string) {
	sum := tarball.Sum(body)
	etag := `"` + sum + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Content-Sha256", sum)
	w.Header().Set("Cache-Control", "private, max-age=0, must-revalidate")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
