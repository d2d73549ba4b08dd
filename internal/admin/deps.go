package admin

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"injdash/internal/models"
	"injdash/internal/probe"
)

// InventoryReader loads the current equipment table.
type InventoryReader interface {
	Load(ctx context.Context) (*models.Inventory, error)
}

// Committer validates and persists a full replacement table.
type Committer interface {
	Commit(ctx context.Context, candidate *models.Inventory) error
}

// Checker answers reachability questions.
type Checker interface {
	Check(ctx context.Context, address string) bool
	CheckAll(ctx context.Context, addresses []string, progress func(probe.Progress)) probe.Results
}

type Dependencies struct {
	Store   InventoryReader
	Editor  Committer
	Prober  Checker
	Session *Session
	Groups  []string
}

func Attach(r *mux.Router, d Dependencies) {
	if d.Session == nil {
		d.Session = NewSession()
	}
	h := &Handler{d: d, t: parseTemplates()}

	r.HandleFunc("/", h.redirect("/admin/dashboard")).Methods(http.MethodGet)

	sub := r.PathPrefix("/admin").Subrouter()

	// pages
	sub.HandleFunc("", h.redirect("/admin/dashboard")).Methods(http.MethodGet)
	sub.HandleFunc("/", h.redirect("/admin/dashboard")).Methods(http.MethodGet)
	sub.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	sub.HandleFunc("/probe", h.Probe).Methods(http.MethodPost)
	sub.HandleFunc("/cards", h.Cards).Methods(http.MethodGet)
	sub.HandleFunc("/equipment", h.EquipmentEdit).Methods(http.MethodGet)
	sub.HandleFunc("/equipment", h.EquipmentSave).Methods(http.MethodPost)

	// api
	sub.HandleFunc("/api/equipment", h.APIEquipmentList).Methods(http.MethodGet)
	sub.HandleFunc("/api/equipment", h.APIEquipmentReplace).Methods(http.MethodPut)
	sub.HandleFunc("/api/equipment.csv", h.APIEquipmentCSV).Methods(http.MethodGet)
	sub.HandleFunc("/api/backup.tar.gz", h.APIBackup).Methods(http.MethodGet)
	sub.HandleFunc("/api/probe", h.APIProbeSession).Methods(http.MethodGet)
	sub.HandleFunc("/api/probe", h.APIProbeAll).Methods(http.MethodPost)
	sub.HandleFunc("/api/probe/{address}", h.APIProbeOne).Methods(http.MethodGet)

	// static
	sub.HandleFunc("/static/style.css", serveCSS).Methods(http.MethodGet)
	sub.HandleFunc("/static/app.js", serveJS).Methods(http.MethodGet)
}
