package editor

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injdash/internal/models"
)

func TestFieldName(t *testing.T) {
	assert.Equal(t, "rows.3.tag", FieldName(3, models.ColTag))
}

func TestFromForm(t *testing.T) {
	cols := append(append([]string{}, models.Columns...), "line")
	form := url.Values{}
	set := func(row int, col, v string) { form.Set(FieldName(row, col), v) }

	set(0, models.ColTag, "007")
	set(0, models.ColGroup, "A3")
	set(0, models.ColDependsOn, "GHOST")
	set(0, "line", "L1")

	set(1, models.ColTag, "INJ-2")
	set(1, "delete", "on")

	set(10, models.ColTag, "INJ-10")

	// untouched blank slot
	set(11, models.ColTag, "")
	set(11, "new", "1")

	// blank slot the operator filled in
	set(12, models.ColTag, "INJ-NEW")
	set(12, "new", "1")

	form.Set("csrf", "x")
	form.Set("rows.bad.tag", "ignored")

	inv := FromForm(form, cols)
	assert.Equal(t, cols, inv.Columns)
	require.Len(t, inv.Records, 3)

	assert.Equal(t, "007", inv.Records[0].Tag)
	assert.Equal(t, "A3", inv.Records[0].Group)
	assert.Equal(t, "GHOST", inv.Records[0].DependsOn)
	assert.Equal(t, "L1", inv.Records[0].Get("line"))

	assert.Equal(t, "INJ-10", inv.Records[1].Tag)
	assert.Equal(t, "", inv.Records[1].Get("line"))
	assert.Equal(t, "INJ-NEW", inv.Records[2].Tag)
}

func TestFromFormKeepsBlankExistingRow(t *testing.T) {
	form := url.Values{}
	form.Set(FieldName(0, models.ColTag), "  ")

	inv := FromForm(form, models.Columns)
	require.Len(t, inv.Records, 1)
	require.ErrorIs(t, Validate(inv.Records), ErrMissingTag)
}
