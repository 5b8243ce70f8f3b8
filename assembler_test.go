package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/honeymaro/hyparquet-go/format"
	"github.com/honeymaro/hyparquet-go/schema"
)

func i32p(v int32) *int32                                  { return &v }
func rtp(v format.FieldRepetitionType) *format.FieldRepetitionType { return &v }
func typ(v format.Type) *format.Type                        { return &v }

func buildTree(t *testing.T, elements []format.SchemaElement) *schema.Node {
	t.Helper()
	root, err := schema.Build(elements)
	require.NoError(t, err)
	return root
}

func TestAssembleColumnOptionalScalar(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(1)},
		{Name: "a", RepetitionType: rtp(format.Optional), Type: typ(format.Int32)},
	})
	leaf := schema.Find(root, "a")

	pages := []chunkPage{{data: &DecodedColumn{
		Values:           []Value{int32Value(5), int32Value(7)},
		DefinitionLevels: []int32{1, 0, 1},
	}}}

	rows := assembleColumn(pages, leaf, 3, false)
	require.Equal(t, []any{int32(5), nil, int32(7)}, rows)
}

func TestAssembleColumnRepeatedLeaf(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(1)},
		{Name: "b", RepetitionType: rtp(format.Repeated), Type: typ(format.Int32)},
	})
	leaf := schema.Find(root, "b")

	pages := []chunkPage{{data: &DecodedColumn{
		Values:           []Value{int32Value(1), int32Value(2), int32Value(3), int32Value(4)},
		DefinitionLevels: []int32{1, 1, 1, 1},
		RepetitionLevels: []int32{0, 1, 1, 0},
	}}}

	rows := assembleColumn(pages, leaf, 2, false)
	require.Equal(t, []any{
		[]any{int32(1), int32(2), int32(3)},
		[]any{int32(4)},
	}, rows)
}

func TestAssembleColumnRepeatedLeafAcrossPages(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(1)},
		{Name: "b", RepetitionType: rtp(format.Repeated), Type: typ(format.Int32)},
	})
	leaf := schema.Find(root, "b")

	pages := []chunkPage{
		{data: &DecodedColumn{
			Values:           []Value{int32Value(1), int32Value(2)},
			DefinitionLevels: []int32{1, 1},
			RepetitionLevels: []int32{0, 1},
		}},
		{data: &DecodedColumn{
			Values:           []Value{int32Value(3)},
			DefinitionLevels: []int32{1},
			RepetitionLevels: []int32{1},
		}},
	}

	rows := assembleColumn(pages, leaf, 1, false)
	require.Equal(t, []any{[]any{int32(1), int32(2), int32(3)}}, rows)
}

func TestAssembleColumnObjectModeWrapsGroupNames(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(1)},
		{Name: "x", RepetitionType: rtp(format.Required), NumChildren: i32p(1)},
		{Name: "y", RepetitionType: rtp(format.Optional), Type: typ(format.Int32)},
	})
	leaf := schema.Find(root, "x.y")

	pages := []chunkPage{{data: &DecodedColumn{
		Values:           []Value{int32Value(9)},
		DefinitionLevels: []int32{1},
	}}}

	rows := assembleColumn(pages, leaf, 1, true)
	require.Equal(t, []any{map[string]any{"x": map[string]any{"y": int32(9)}}}, rows)
}

func TestMergeValuesZipsSiblingListsUnderSharedRepeatedGroup(t *testing.T) {
	a := map[string]any{"b": []any{
		map[string]any{"c": int32(1)},
		map[string]any{"c": int32(2)},
	}}
	b := map[string]any{"b": []any{
		map[string]any{"d": int32(10)},
		map[string]any{"d": int32(20)},
	}}

	merged := mergeValues(a, b).(map[string]any)
	list := merged["b"].([]any)
	require.Len(t, list, 2)
	require.Equal(t, map[string]any{"c": int32(1), "d": int32(10)}, list[0])
	require.Equal(t, map[string]any{"c": int32(2), "d": int32(20)}, list[1])
}

func TestAssembleRowsArrayModeIsPositional(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(2)},
		{Name: "a", RepetitionType: rtp(format.Required), Type: typ(format.Int32)},
		{Name: "b", RepetitionType: rtp(format.Required), Type: typ(format.Int32)},
	})

	gp := GroupPlan{GroupRows: 2}
	byColumn := map[string][]chunkPage{
		"a": {{data: &DecodedColumn{Values: []Value{int32Value(1), int32Value(2)}}}},
		"b": {{data: &DecodedColumn{Values: []Value{int32Value(10), int32Value(20)}}}},
	}

	req := &Request{RowFormat: RowArray}
	rows, err := assembleRows(gp, byColumn, root, []string{"a", "b"}, req)
	require.NoError(t, err)
	require.Equal(t, []Row{
		[]any{int32(1), int32(10)},
		[]any{int32(2), int32(20)},
	}, rows)
}

func TestAssembleRowsUnknownColumn(t *testing.T) {
	root := buildTree(t, []format.SchemaElement{
		{Name: "schema", NumChildren: i32p(1)},
		{Name: "a", RepetitionType: rtp(format.Required), Type: typ(format.Int32)},
	})

	req := &Request{RowFormat: RowArray}
	_, err := assembleRows(GroupPlan{GroupRows: 1}, nil, root, []string{"missing"}, req)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, InvalidRequest, pe.Kind)
}
