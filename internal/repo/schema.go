package repo

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"injdash/internal/logs"
	"injdash/internal/models"
)

var (
	ErrMalformedRow    = errors.New("malformed inventory row")
	ErrMalformedHeader = errors.New("malformed inventory header")
)

// Column names used by the first spreadsheet-based version of the inventory.
var legacyHeaders = map[string]string{
	"grupo":             models.ColGroup,
	"ip_injetora":       models.ColInjectorIP,
	"ip_dosador":        models.ColDoserIP,
	"id_dosador":        models.ColDoserID,
	"ip_coletor":        models.ColCollectorIP,
	"tag_ont":           models.ColONTTag,
	"status_opcua":      models.ColOPCUAStatus,
	"observacoes":       models.ColNotes,
	"status_geral":      models.ColGeneralStatus,
	"dependente_syneco": models.ColDependsOn,
}

// Values written by the spreadsheet-based version, per canonical column.
// Applied only to files that still carry its headers.
var legacyValues = map[string]map[string]string{
	models.ColGeneralStatus: {
		"Não OK": models.StatusNotOK,
	},
	models.ColOPCUAStatus: {
		"Conectado":     models.OPCUAConnected,
		"Não Conectado": models.OPCUANotConnected,
		"Sem OPCUA":     models.OPCUANone,
	},
	models.ColDependsOn: {
		"Nenhum": models.DependsOnNone,
	},
}

const utf8BOM = "\ufeff"

// headerName returns the canonical name of a header cell and whether it was
// a legacy name.
func headerName(raw string, first bool) (string, bool) {
	name := strings.TrimSpace(raw)
	if first {
		name = strings.TrimPrefix(name, utf8BOM)
	}
	if canon, ok := legacyHeaders[strings.ToLower(name)]; ok {
		return canon, true
	}
	return name, false
}

// reconcile returns the canonical columns followed by the extra columns of
// header, in the order they were found.
func reconcile(header []string) []string {
	cols := append([]string(nil), models.Columns...)
	for _, h := range header {
		if h != "" && !models.IsCanonical(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// rowReader hands already-read rows to gocsv.
type rowReader struct {
	rows [][]string
	next int
}

func (r *rowReader) Read() ([]string, error) {
	if r.next >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.next]
	r.next++
	return row, nil
}

func (r *rowReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.next:]
	r.next = len(r.rows)
	return rest, nil
}

// decode reads the raw rows itself (ragged rows, header rewrite, row-level
// errors), lets gocsv map the canonical columns onto Equipment, then copies
// the extra columns into Equipment.Extra.
func decode(r io.Reader) (*models.Inventory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.NewInventory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	legacy := false
	for i, h := range raw {
		name, old := headerName(h, i == 0)
		legacy = legacy || old
		if name == "" {
			logs.Logger.Warnf("inventory: dropping unnamed column %d", i+1)
		} else if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedHeader, name)
		}
		seen[name] = true
		header[i] = name
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedRow, line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}

	inv := &models.Inventory{Columns: reconcile(header), Records: []models.Equipment{}}
	if len(rows) == 0 {
		return inv, nil
	}

	// gocsv only sees the canonical columns
	var canon []int
	for i, h := range header {
		if models.IsCanonical(h) {
			canon = append(canon, i)
		}
	}
	project := func(row []string) []string {
		out := make([]string, len(canon))
		for j, i := range canon {
			out[j] = row[i]
		}
		return out
	}
	feed := &rowReader{rows: make([][]string, 0, len(rows)+1)}
	feed.rows = append(feed.rows, project(header))
	for _, row := range rows {
		feed.rows = append(feed.rows, project(row))
	}
	if err := gocsv.UnmarshalCSV(feed, &inv.Records); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if len(inv.Records) != len(rows) {
		return nil, fmt.Errorf("%w: decoded %d of %d rows", ErrMalformedRow, len(inv.Records), len(rows))
	}

	for n, row := range rows {
		e := &inv.Records[n]
		for i, h := range header {
			if h != "" && !models.IsCanonical(h) {
				e.Set(h, row[i])
			}
		}
		if legacy {
			translateLegacy(e)
		}
	}
	return inv, nil
}

func translateLegacy(e *models.Equipment) {
	for col, values := range legacyValues {
		if v, ok := values[strings.TrimSpace(e.Get(col))]; ok {
			e.Set(col, v)
		}
	}
}

// encode writes the canonical columns through gocsv, then appends the extra
// columns to every row.
func encode(w io.Writer, inv *models.Inventory) error {
	extra := inv.ExtraColumns()
	if len(inv.Records) == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(append(append([]string(nil), models.Columns...), extra...)); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(inv.Records, gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))); err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if len(extra) == 0 {
		_, err := io.Copy(w, &buf)
		return err
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	rows[0] = append(rows[0], extra...)
	for n, e := range inv.Records {
		for _, c := range extra {
			rows[n+1] = append(rows[n+1], e.Extra[c])
		}
	}
	return csv.NewWriter(w).WriteAll(rows)
}

// WriteCSV writes inv in the on-disk format.
func WriteCSV(w io.Writer, inv *models.Inventory) error {
	return encode(w, inv)
}
