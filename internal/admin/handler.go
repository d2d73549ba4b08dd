package admin

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"injdash/internal/editor"
	"injdash/internal/logs"
	"injdash/internal/models"
	"injdash/internal/probe"
)

type Handler struct {
	d Dependencies
	t pageTemplates
}

var notices = map[string]string{
	"saved":  "Changes saved.",
	"probed": "Ping check finished.",
}

func (h *Handler) redirect(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, data map[string]any) {
	h.renderStatus(w, http.StatusOK, page, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, status int, page string, data map[string]any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logs.Logger.Errorf("admin: render %s: %v", page, err)
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Inventory, bool) {
	inv, err := h.d.Store.Load(r.Context())
	if err != nil {
		logs.Logger.Errorf("admin: load inventory: %v", err)
		http.Error(w, "cannot read inventory: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return inv, true
}

// ---------- Pages ----------

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	results, checkedAt, probed := h.d.Session.Probe()
	online, offline := results.Count()

	h.render(w, "dashboard.tmpl", map[string]any{
		"Title":     "Overview",
		"Nav":       "dashboard",
		"Notice":    notices[r.URL.Query().Get("notice")],
		"Query":     q,
		"Columns":   inv.Columns,
		"Rows":      dashboardRows(filterRecords(inv.Records, q, inv.Columns), results),
		"Total":     len(inv.Records),
		"OK":        inv.CountStatus(models.StatusOK),
		"NotOK":     inv.CountStatus(models.StatusNotOK),
		"Probed":    probed,
		"CheckedAt": checkedAt,
		"Online":    online,
		"Offline":   offline,
	})
}

// Probe runs a batch ping over every address in the inventory and sends the
// operator back to the dashboard.
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	h.probeAll(r, probe.Addresses(inv.Records), nil)

	back := url.Values{"notice": {"probed"}}
	if err := r.ParseForm(); err == nil && r.FormValue("q") != "" {
		back.Set("q", r.FormValue("q"))
	}
	http.Redirect(w, r, "/admin/dashboard?"+back.Encode(), http.StatusFound)
}

func (h *Handler) probeAll(r *http.Request, addrs []string, progress func(probe.Progress)) probe.Results {
	start := time.Now()
	res := h.d.Prober.CheckAll(r.Context(), addrs, func(p probe.Progress) {
		logs.Logger.Debugf("probe %d/%d %s reachable=%t", p.Done, p.Total, p.Address, p.Reachable)
		if progress != nil {
			progress(p)
		}
	})
	h.d.Session.SetProbe(res, time.Now())
	online, offline := res.Count()
	logs.Logger.Infof("probe batch: addresses=%d online=%d offline=%d dur=%s",
		len(addrs), online, offline, time.Since(start).Round(time.Millisecond))
	return res
}

func (h *Handler) Cards(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	group := r.URL.Query().Get("group")
	if group == "" {
		group = allGroups
	}

	data := map[string]any{
		"Title":  "Card map",
		"Nav":    "cards",
		"Group":  group,
		"Groups": groupChoices(inv.Records),
		"Cards":  recordsInGroup(inv.Records, group),
		"Empty":  len(inv.Records) == 0,
	}
	if tag := r.URL.Query().Get("selected"); tag != "" {
		sel, found := inv.Find(tag)
		if !found {
			http.NotFound(w, r)
			return
		}
		data["Selected"] = sel
		data["Details"] = detailFields(sel, inv.ExtraColumns())
	}
	h.render(w, "cards.tmpl", data)
}

func (h *Handler) EquipmentEdit(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	h.render(w, "equipment_edit.tmpl", h.editData(inv, notices[r.URL.Query().Get("notice")], ""))
}

func (h *Handler) EquipmentSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	current, ok := h.load(w, r)
	if !ok {
		return
	}
	cand := editor.FromForm(r.PostForm, current.Columns)

	err := h.d.Editor.Commit(r.Context(), cand)
	switch {
	case err == nil:
		http.Redirect(w, r, "/admin/equipment?notice=saved", http.StatusFound)
	case errors.Is(err, editor.ErrMissingTag):
		h.renderStatus(w, http.StatusUnprocessableEntity, "equipment_edit.tmpl",
			h.editData(cand, "", "The injector ID (tag) cannot be empty. Fill in every tag: "+err.Error()))
	case errors.Is(err, editor.ErrDuplicateTag):
		h.renderStatus(w, http.StatusUnprocessableEntity, "equipment_edit.tmpl",
			h.editData(cand, "", "Injector IDs must be unique. Fix the duplicates before saving: "+err.Error()))
	default:
		logs.Logger.Errorf("admin: save inventory: %v", err)
		h.renderStatus(w, http.StatusInternalServerError, "equipment_edit.tmpl",
			h.editData(cand, "", "Saving failed: "+err.Error()))
	}
}

func (h *Handler) editData(inv *models.Inventory, notice, problem string) map[string]any {
	return map[string]any{
		"Title":   "Manage equipment",
		"Nav":     "equipment",
		"Notice":  notice,
		"Error":   problem,
		"Columns": inv.Columns,
		"Rows":    editRows(inv, h.d.Groups, blankRows),
	}
}
