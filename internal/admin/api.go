package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"injdash/internal/editor"
	"injdash/internal/logs"
	"injdash/internal/models"
	"injdash/internal/probe"
)

const maxBodyBytes = 4 << 20

func (h *Handler) APIEquipmentList(w http.ResponseWriter, r *http.Request) {
	inv, err := h.d.Store.Load(r.Context())
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Inventory unreadable", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, inv)
}

// APIEquipmentReplace replaces the whole inventory through the edit pipeline.
func (h *Handler) APIEquipmentReplace(w http.ResponseWriter, r *http.Request) {
	var cand models.Inventory
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cand); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad request", err.Error(), nil)
		return
	}

	err := h.d.Editor.Commit(r.Context(), &cand)
	switch {
	case err == nil:
		models.WriteJSON(w, http.StatusOK, map[string]any{"saved": len(cand.Records)})
	case errors.Is(err, editor.ErrMissingTag):
		models.WriteProblem(w, http.StatusUnprocessableEntity, "Missing identifier", err.Error(), nil)
	case errors.Is(err, editor.ErrDuplicateTag):
		models.WriteProblem(w, http.StatusUnprocessableEntity, "Duplicate identifier", err.Error(), nil)
	default:
		logs.Logger.Errorf("api: save inventory: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Save failed", err.Error(), nil)
	}
}

type probeSession struct {
	Results   probe.Results `json:"results"`
	CheckedAt *time.Time    `json:"checked_at,omitempty"`
}

func (h *Handler) APIProbeSession(w http.ResponseWriter, _ *http.Request) {
	res, at, ok := h.d.Session.Probe()
	if !ok {
		models.WriteJSON(w, http.StatusOK, probeSession{Results: probe.Results{}})
		return
	}
	models.WriteJSON(w, http.StatusOK, probeSession{Results: res, CheckedAt: &at})
}

func (h *Handler) APIProbeOne(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	ok := h.d.Prober.Check(r.Context(), addr)
	state := probe.Offline
	if ok {
		state = probe.Online
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"address":   addr,
		"reachable": ok,
		"state":     state.String(),
	})
}

type probeRequest struct {
	Addresses []string `json:"addresses"`
}

// APIProbeAll streams one NDJSON line per probed address followed by a final
// line with the whole result. Without a body it probes every inventory
// address.
func (h *Handler) APIProbeAll(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if r.ContentLength != 0 {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			models.WriteProblem(w, http.StatusBadRequest, "Bad request", err.Error(), nil)
			return
		}
	}
	addrs := req.Addresses
	if len(addrs) == 0 {
		inv, err := h.d.Store.Load(r.Context())
		if err != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Inventory unreadable", err.Error(), nil)
			return
		}
		addrs = probe.Addresses(inv.Records)
	}

	out := models.NewLineWriter(w)
	res := h.probeAll(r, addrs, func(p probe.Progress) {
		if err := out.Write(p); err != nil {
			logs.Logger.Debugf("api: probe progress write: %v", err)
		}
	})
	_ = out.Write(map[string]any{"results": res})
}
