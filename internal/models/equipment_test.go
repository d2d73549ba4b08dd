package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipmentGetSet(t *testing.T) {
	var e Equipment
	for _, c := range Columns {
		e.Set(c, c+"-v")
	}
	e.Set("line", "L2")

	for _, c := range Columns {
		assert.Equal(t, c+"-v", e.Get(c))
	}
	assert.Equal(t, "L2", e.Get("line"))
	assert.Equal(t, "", e.Get("missing"))
}

func TestEquipmentAddressesSkipsBlank(t *testing.T) {
	e := Equipment{InjectorIP: "10.0.0.1", DoserIP: "  ", CollectorIP: " 10.0.0.3 "}
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.3"}, e.Addresses())
}

func TestEquipmentMatches(t *testing.T) {
	e := Equipment{Tag: "INJ-07", Group: "A4", Notes: "Screw replaced"}
	assert.True(t, e.Matches("", Columns))
	assert.True(t, e.Matches("inj-0", Columns))
	assert.True(t, e.Matches("SCREW", Columns))
	assert.False(t, e.Matches("A5", Columns))
}

func TestInventoryHelpers(t *testing.T) {
	inv := NewInventory()
	require.Equal(t, Columns, inv.Columns)
	require.Empty(t, inv.Records)

	inv.Columns = append(inv.Columns, "line")
	inv.Records = []Equipment{
		{Tag: "1", GeneralStatus: StatusOK},
		{Tag: "2", GeneralStatus: StatusNotOK},
		{Tag: "1"},
		{Tag: " "},
	}
	assert.Equal(t, []string{"line"}, inv.ExtraColumns())
	assert.Equal(t, []string{"1", "2"}, inv.Tags())
	assert.Equal(t, 1, inv.CountStatus(StatusOK))
	assert.Equal(t, 1, inv.CountStatus(StatusNotOK))

	got, ok := inv.Find("2")
	require.True(t, ok)
	assert.Equal(t, StatusNotOK, got.GeneralStatus)
	_, ok = inv.Find("9")
	assert.False(t, ok)
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical(ColDependsOn))
	assert.False(t, IsCanonical("grupo"))
}

func TestColumnsFollowCSVTags(t *testing.T) {
	require.Len(t, fieldIndex, len(Columns))
	for i, c := range Columns {
		assert.Equal(t, i, fieldIndex[c], c)
	}
	assert.False(t, IsCanonical("-"))
}
