package models

import (
	"reflect"
	"strings"
)

// Canonical CSV columns, in file order.
const (
	ColTag           = "tag"
	ColGroup         = "group"
	ColInjectorIP    = "injector_ip"
	ColDoserIP       = "doser_ip"
	ColDoserID       = "doser_id"
	ColCollectorIP   = "collector_ip"
	ColONTTag        = "ont_tag"
	ColOPCUAStatus   = "opcua_status"
	ColNotes         = "notes"
	ColGeneralStatus = "general_status"
	ColDependsOn     = "depends_on"
)

var Columns = []string{
	ColTag, ColGroup, ColInjectorIP, ColDoserIP, ColDoserID, ColCollectorIP,
	ColONTTag, ColOPCUAStatus, ColNotes, ColGeneralStatus, ColDependsOn,
}

// AddressColumns are the columns probed for reachability.
var AddressColumns = []string{ColInjectorIP, ColDoserIP, ColCollectorIP}

const (
	OPCUAConnected    = "Connected"
	OPCUANotConnected = "Not Connected"
	OPCUANone         = "No OPCUA"

	StatusOK    = "OK"
	StatusNotOK = "Not OK"

	// DependsOnNone is what the editor stores when there is no dependency.
	DependsOnNone = "None"
)

var OPCUAStatuses = []string{OPCUAConnected, OPCUANotConnected, OPCUANone}

var GeneralStatuses = []string{StatusOK, StatusNotOK}

// Equipment is one injection-molding machine. Every field is kept as text.
type Equipment struct {
	Tag           string `json:"tag" csv:"tag"`
	Group         string `json:"group" csv:"group"`
	InjectorIP    string `json:"injector_ip" csv:"injector_ip"`
	DoserIP       string `json:"doser_ip" csv:"doser_ip"`
	DoserID       string `json:"doser_id" csv:"doser_id"`
	CollectorIP   string `json:"collector_ip" csv:"collector_ip"`
	ONTTag        string `json:"ont_tag" csv:"ont_tag"`
	OPCUAStatus   string `json:"opcua_status" csv:"opcua_status"`
	Notes         string `json:"notes" csv:"notes"`
	GeneralStatus string `json:"general_status" csv:"general_status"`
	DependsOn     string `json:"depends_on" csv:"depends_on"`

	// Extra holds columns found in the file that are not canonical.
	Extra map[string]string `json:"extra,omitempty" csv:"-"`
}

// fieldIndex maps a canonical column to its Equipment field through the csv
// struct tags, the same tags the CSV codec reads.
var fieldIndex = func() map[string]int {
	t := reflect.TypeOf(Equipment{})
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("csv"), ",")
		if name == "" || name == "-" {
			continue
		}
		idx[name] = i
	}
	return idx
}()

func (e *Equipment) field(col string) *string {
	i, ok := fieldIndex[col]
	if !ok {
		return nil
	}
	return reflect.ValueOf(e).Elem().Field(i).Addr().Interface().(*string)
}

// Get returns the value of a canonical or extra column.
func (e Equipment) Get(col string) string {
	if p := e.field(col); p != nil {
		return *p
	}
	return e.Extra[col]
}

// Set assigns a canonical or extra column.
func (e *Equipment) Set(col, value string) {
	if p := e.field(col); p != nil {
		*p = value
		return
	}
	if e.Extra == nil {
		e.Extra = make(map[string]string)
	}
	e.Extra[col] = value
}

// Addresses returns the non-empty probe targets of the record.
func (e Equipment) Addresses() []string {
	out := make([]string, 0, len(AddressColumns))
	for _, c := range AddressColumns {
		if v := strings.TrimSpace(e.Get(c)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether any column contains q, case-insensitively.
func (e Equipment) Matches(q string, columns []string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(e.Get(c)), q) {
			return true
		}
	}
	return false
}

// IsCanonical reports whether col is one of Columns.
func IsCanonical(col string) bool {
	_, ok := fieldIndex[col]
	return ok
}

// Inventory is the whole equipment table.
type Inventory struct {
	Columns []string    `json:"columns"`
	Records []Equipment `json:"records"`
}

// NewInventory returns an empty inventory with the canonical schema.
func NewInventory() *Inventory {
	return &Inventory{Columns: append([]string(nil), Columns...), Records: []Equipment{}}
}

// ExtraColumns returns the non-canonical columns in order.
func (inv *Inventory) ExtraColumns() []string {
	var out []string
	for _, c := range inv.Columns {
		if !IsCanonical(c) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the record with the given tag.
func (inv *Inventory) Find(tag string) (Equipment, bool) {
	for _, r := range inv.Records {
		if r.Tag == tag {
			return r, true
		}
	}
	return Equipment{}, false
}

// Tags returns the distinct non-empty tags in file order.
func (inv *Inventory) Tags() []string {
	seen := make(map[string]struct{}, len(inv.Records))
	out := make([]string, 0, len(inv.Records))
	for _, r := range inv.Records {
		if strings.TrimSpace(r.Tag) == "" {
			continue
		}
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		out = append(out, r.Tag)
	}
	return out
}

// CountStatus counts records whose general status equals status.
func (inv *Inventory) CountStatus(status string) int {
	n := 0
	for _, r := range inv.Records {
		if r.GeneralStatus == status {
			n++
		}
	}
	return n
}
