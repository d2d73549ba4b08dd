package editor

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"injdash/internal/models"
)

// Form field layout of the editable grid: "rows.<i>.<column>" for values,
// "rows.<i>.delete" to drop a row, "rows.<i>.new" for the blank slots offered
// for additions.
const rowPrefix = "rows."

func FieldName(row int, column string) string {
	return rowPrefix + strconv.Itoa(row) + "." + column
}

// FromForm rebuilds a candidate inventory from the editable grid. Rows marked
// for deletion are dropped, and so are untouched blank slots.
func FromForm(form url.Values, columns []string) *models.Inventory {
	rows := map[int]struct{}{}
	for key := range form {
		if !strings.HasPrefix(key, rowPrefix) {
			continue
		}
		rest := strings.TrimPrefix(key, rowPrefix)
		idx, _, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			continue
		}
		rows[n] = struct{}{}
	}
	order := make([]int, 0, len(rows))
	for n := range rows {
		order = append(order, n)
	}
	sort.Ints(order)

	inv := &models.Inventory{Columns: columns, Records: []models.Equipment{}}
	for _, n := range order {
		if form.Get(FieldName(n, "delete")) != "" {
			continue
		}
		var e models.Equipment
		blank := true
		for _, c := range columns {
			v := form.Get(FieldName(n, c))
			if v != "" {
				blank = false
			}
			e.Set(c, v)
		}
		if blank && form.Get(FieldName(n, "new")) != "" {
			continue
		}
		inv.Records = append(inv.Records, e)
	}
	return inv
}
