// Package editor gates whole-table edits of the equipment inventory: a
// candidate table is either accepted and saved in full, or rejected and the
// stored table is left untouched.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"injdash/internal/logs"
	"injdash/internal/models"
)

var (
	ErrMissingTag   = errors.New("missing identifier")
	ErrDuplicateTag = errors.New("duplicate identifier")
)

// Saver persists a full inventory.
type Saver interface {
	Save(ctx context.Context, inv *models.Inventory) error
}

type Pipeline struct {
	store Saver
}

func New(store Saver) *Pipeline { return &Pipeline{store: store} }

// Validate checks the tag invariants: every tag non-blank, no tag repeated.
// Blank tags are reported before duplicates.
func Validate(records []models.Equipment) error {
	for i, r := range records {
		if strings.TrimSpace(r.Tag) == "" {
			return fmt.Errorf("%w: row %d has no tag", ErrMissingTag, i+1)
		}
	}
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if first, ok := seen[r.Tag]; ok {
			return fmt.Errorf("%w: tag %q is used by rows %d and %d", ErrDuplicateTag, r.Tag, first+1, i+1)
		}
		seen[r.Tag] = i
	}
	return nil
}

// Commit validates candidate and, if it passes, saves it as the new inventory.
func (p *Pipeline) Commit(ctx context.Context, candidate *models.Inventory) error {
	inv := normalize(candidate)

	if err := Validate(inv.Records); err != nil {
		logs.Logger.Warnf("inventory edit rejected: %v", err)
		return err
	}
	if err := p.store.Save(ctx, inv); err != nil {
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}

// normalize gives the candidate the canonical schema, keeping its extra
// columns, and never aliases the caller's slices. Extra values carried by a
// record whose column the candidate did not list are appended as columns in
// sorted order.
func normalize(in *models.Inventory) *models.Inventory {
	if in == nil {
		return models.NewInventory()
	}
	cols := append(append([]string(nil), models.Columns...), in.ExtraColumns()...)
	listed := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		listed[c] = struct{}{}
	}
	var unlisted []string
	for _, r := range in.Records {
		for k := range r.Extra {
			if _, ok := listed[k]; ok || k == "" || models.IsCanonical(k) {
				continue
			}
			listed[k] = struct{}{}
			unlisted = append(unlisted, k)
		}
	}
	sort.Strings(unlisted)

	out := &models.Inventory{
		Columns: append(cols, unlisted...),
		Records: make([]models.Equipment, len(in.Records)),
	}
	copy(out.Records, in.Records)
	return out
}
