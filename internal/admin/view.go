package admin

import (
	"slices"
	"sort"
	"strings"

	"injdash/internal/editor"
	"injdash/internal/models"
	"injdash/internal/probe"
)

var columnLabels = map[string]string{
	models.ColTag:           "Injector ID (tag)",
	models.ColGroup:         "Annex",
	models.ColInjectorIP:    "Injector IP",
	models.ColDoserIP:       "Doser IP",
	models.ColDoserID:       "Doser ID",
	models.ColCollectorIP:   "Syneco IP",
	models.ColONTTag:        "ONT ID",
	models.ColOPCUAStatus:   "OPC UA status",
	models.ColNotes:         "Notes",
	models.ColGeneralStatus: "General status",
	models.ColDependsOn:     "Syneco dependency",
}

func label(col string) string {
	if l, ok := columnLabels[col]; ok {
		return l
	}
	return col
}

// badge classes shared by cards and the detail overlay
func statusClass(status string) string {
	switch status {
	case models.StatusOK, models.OPCUAConnected:
		return "ok"
	case models.StatusNotOK, models.OPCUANotConnected:
		return "nok"
	default:
		return "off"
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// ---------- dashboard ----------

type pingCell struct {
	Address string
	State   probe.State
}

func (c pingCell) Class() string { return c.State.String() }

func (c pingCell) Label() string {
	switch c.State {
	case probe.Online:
		return "Online"
	case probe.Offline:
		return "Offline"
	default:
		return "Not tested"
	}
}

type dashboardRow struct {
	models.Equipment
	Pings     []pingCell
	Highlight bool
}

func dashboardRows(records []models.Equipment, results probe.Results) []dashboardRow {
	rows := make([]dashboardRow, 0, len(records))
	for _, r := range records {
		row := dashboardRow{Equipment: r, Highlight: r.GeneralStatus == models.StatusOK}
		if results != nil {
			for _, c := range models.AddressColumns {
				a := r.Get(c)
				row.Pings = append(row.Pings, pingCell{Address: a, State: results.State(a)})
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func filterRecords(records []models.Equipment, q string, columns []string) []models.Equipment {
	if strings.TrimSpace(q) == "" {
		return records
	}
	out := make([]models.Equipment, 0, len(records))
	for _, r := range records {
		if r.Matches(q, columns) {
			out = append(out, r)
		}
	}
	return out
}

// ---------- cards ----------

const allGroups = "All"

func groupChoices(records []models.Equipment) []string {
	set := map[string]struct{}{}
	for _, r := range records {
		if g := strings.TrimSpace(r.Group); g != "" {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set)+1)
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return append([]string{allGroups}, out...)
}

func recordsInGroup(records []models.Equipment, group string) []models.Equipment {
	if group == "" || group == allGroups {
		return records
	}
	out := make([]models.Equipment, 0, len(records))
	for _, r := range records {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}

type detailField struct {
	Label string
	Value string
	Code  bool
	Wide  bool
	Badge string
}

func detailFields(e models.Equipment, extra []string) []detailField {
	fields := []detailField{
		{Label: label(models.ColGroup), Value: orDefault(e.Group, "N/A")},
		{Label: label(models.ColOPCUAStatus), Value: orDefault(e.OPCUAStatus, "N/A"), Badge: statusClass(e.OPCUAStatus)},
		{Label: label(models.ColGeneralStatus), Value: orDefault(e.GeneralStatus, "N/A"), Badge: statusClass(e.GeneralStatus)},
		{Label: label(models.ColDependsOn), Value: orDefault(e.DependsOn, models.DependsOnNone)},
		{Label: label(models.ColInjectorIP), Value: orDefault(e.InjectorIP, "N/A"), Code: true},
		{Label: label(models.ColDoserIP), Value: orDefault(e.DoserIP, "N/A"), Code: true},
		{Label: label(models.ColDoserID), Value: orDefault(e.DoserID, "N/A"), Code: true},
		{Label: label(models.ColCollectorIP), Value: orDefault(e.CollectorIP, "N/A"), Code: true},
		{Label: label(models.ColONTTag), Value: orDefault(e.ONTTag, "N/A"), Code: true, Wide: true},
	}
	for _, c := range extra {
		fields = append(fields, detailField{Label: label(c), Value: orDefault(e.Get(c), "N/A"), Wide: true})
	}
	return append(fields, detailField{Label: label(models.ColNotes), Value: orDefault(e.Notes, "No notes"), Wide: true})
}

// ---------- editable grid ----------

const blankRows = 3

type option struct {
	Value    string
	Label    string
	Selected bool
}

// selectOptions lists choices for a select box. The current value is always
// offered, even if it is not a known choice, so that saving the grid never
// rewrites data the operator did not touch.
func selectOptions(choices []string, current string, blank string, withBlank bool) []option {
	out := make([]option, 0, len(choices)+2)
	if withBlank || current == "" {
		out = append(out, option{Value: "", Label: blank, Selected: current == ""})
	}
	for _, c := range choices {
		out = append(out, option{Value: c, Label: c, Selected: c == current})
	}
	if current != "" && !slices.Contains(choices, current) {
		out = append(out, option{Value: current, Label: current + " (unknown)", Selected: true})
	}
	return out
}

type editCell struct {
	Name    string
	Column  string
	Value   string
	Options []option // nil for free text
}

type editRow struct {
	Index int
	New   bool
	Cells []editCell
}

func (r editRow) DeleteName() string { return editor.FieldName(r.Index, "delete") }
func (r editRow) NewName() string    { return editor.FieldName(r.Index, "new") }

func editRows(inv *models.Inventory, groups []string, blanks int) []editRow {
	depChoices := append([]string{models.DependsOnNone}, inv.Tags()...)
	cols := inv.Columns
	if len(cols) == 0 {
		cols = models.Columns
	}

	build := func(i int, e models.Equipment, isNew bool) editRow {
		row := editRow{Index: i, New: isNew}
		for _, c := range cols {
			cell := editCell{Name: editor.FieldName(i, c), Column: c, Value: e.Get(c)}
			switch c {
			case models.ColGroup:
				cell.Options = selectOptions(groups, cell.Value, "-", isNew)
			case models.ColOPCUAStatus:
				cell.Options = selectOptions(models.OPCUAStatuses, cell.Value, "-", isNew)
			case models.ColGeneralStatus:
				cell.Options = selectOptions(models.GeneralStatuses, cell.Value, "Not defined", true)
			case models.ColDependsOn:
				cell.Options = selectOptions(depChoices, cell.Value, "-", true)
			}
			row.Cells = append(row.Cells, cell)
		}
		return row
	}

	rows := make([]editRow, 0, len(inv.Records)+blanks)
	for i, e := range inv.Records {
		rows = append(rows, build(i, e, false))
	}
	for i := 0; i < blanks; i++ {
		rows = append(rows, build(len(inv.Records)+i, models.Equipment{}, true))
	}
	return rows
}
