package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"injdash/internal/models"
)

// Loader is anything that can prove the inventory is readable.
type Loader interface {
	Load(ctx context.Context) (*models.Inventory, error)
}

// RegisterRoutes registers the liveness probe.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
}

// RegisterRoutesWithStore adds /readyz, which fails while the inventory file
// cannot be read.
func RegisterRoutesWithStore(r *mux.Router, store Loader) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			http.Error(w, "inventory not configured", http.StatusServiceUnavailable)
			return
		}
		if _, err := store.Load(req.Context()); err != nil {
			http.Error(w, "inventory unreadable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
