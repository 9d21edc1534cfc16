package rsxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildScalarText(t *testing.T) {
	n := Build(Element{Tag: "x", Text: " 42 "})
	require.EqualValues(t, 42, n.AsInt())
}

func TestBuildScalarFloat(t *testing.T) {
	n := Build(Element{Tag: "x", Text: "3.5"})
	require.InDelta(t, 3.5, n.AsFloat(), 0.0001)
}

func TestBuildScalarString(t *testing.T) {
	n := Build(Element{Tag: "x", Text: "hello"})
	require.Equal(t, "hello", n.AsString())
}

func TestBuildRecordFromAttrsAndChildren(t *testing.T) {
	el := Element{
		Tag:   "note",
		Attrs: map[string]string{"time": "1.5", "string": "0"},
		Children: []Element{
			{Tag: "bendValues", Text: "10"},
		},
	}
	n := Build(el)
	require.InDelta(t, 1.5, n.Float("time"), 0.0001)
	require.Equal(t, 0, n.Int("string"))
	require.EqualValues(t, 10, n.Field("bendValues").AsInt())
}

func TestBuildCountElementBecomesList(t *testing.T) {
	el := Element{
		Tag:   "ebeats",
		Attrs: map[string]string{"count": "2"},
		Children: []Element{
			{Tag: "ebeat", Attrs: map[string]string{"time": "0"}},
			{Tag: "ebeat", Attrs: map[string]string{"time": "1"}},
		},
	}
	n := Build(el)
	items := n.List()
	require.Len(t, items, 2)
	require.Equal(t, 0, items[0].Int("time"))
	require.Equal(t, 1, items[1].Int("time"))
}

func TestBuildRepeatedTagWithoutCountCollapsesToList(t *testing.T) {
	el := Element{
		Tag: "chord",
		Children: []Element{
			{Tag: "chordNote", Attrs: map[string]string{"string": "0"}},
			{Tag: "chordNote", Attrs: map[string]string{"string": "1"}},
			{Tag: "chordNote", Attrs: map[string]string{"string": "2"}},
		},
	}
	n := Build(el)
	notes := n.FieldList("chordNote")
	require.Len(t, notes, 3)
	require.Equal(t, 2, notes[2].Int("string"))
}

func TestSetAddsField(t *testing.T) {
	n := NewRecord(nil)
	n.Set("flags", NewInt(0))
	require.Equal(t, 0, n.Int("flags"))
	require.True(t, n.Has("flags"))
}

func TestFieldListAbsentIsNil(t *testing.T) {
	n := NewRecord(nil)
	require.Nil(t, n.FieldList("missing"))
}
