package parquet

import (
	"github.com/honeymaro/hyparquet-go/schema"
)

// asmEntry is one (repetition level, definition level, maybe-a-value) tuple
// consumed by the Dremel reconstruction (§4.7).
type asmEntry struct {
	def      int32
	rep      int32
	value    Value
	hasValue bool
}

// ancestorChain returns the path from the root's child down to n, inclusive,
// in top-down order. The schema root itself (the unnamed wrapper) is never
// included.
func ancestorChain(n *schema.Node) []*schema.Node {
	var chain []*schema.Node
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// buildEntries flattens a column's concatenated def/rep/value streams (across
// every page in a row group) into one entry per level-tuple. Either level
// stream may be nil when the leaf's corresponding max level is zero.
func buildEntries(defLevels, repLevels []int32, values []Value, leafMaxDef int32, rowCount int) []asmEntry {
	if defLevels == nil && repLevels == nil {
		entries := make([]asmEntry, len(values))
		for i, v := range values {
			entries[i] = asmEntry{def: leafMaxDef, rep: 0, value: v, hasValue: true}
		}
		return entries
	}

	n := len(defLevels)
	if defLevels == nil {
		n = len(repLevels)
	}

	entries := make([]asmEntry, n)
	valueIdx := 0
	for i := 0; i < n; i++ {
		d := leafMaxDef
		if defLevels != nil {
			d = defLevels[i]
		}
		var r int32
		if repLevels != nil {
			r = repLevels[i]
		}
		hasValue := d == leafMaxDef
		var v Value
		if hasValue {
			v = values[valueIdx]
			valueIdx++
		}
		entries[i] = asmEntry{def: d, rep: r, value: v, hasValue: hasValue}
	}
	return entries
}

// splitRows breaks a column's flat entry stream into one slice per
// top-level record, at every repetition-level-zero boundary. When the leaf
// has no repeated ancestor, every entry is its own record.
func splitRows(entries []asmEntry, maxDepth int) [][]asmEntry {
	if maxDepth == 0 {
		rows := make([][]asmEntry, len(entries))
		for i, e := range entries {
			rows[i] = []asmEntry{e}
		}
		return rows
	}
	var rows [][]asmEntry
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || entries[i].rep == 0 {
			rows = append(rows, entries[start:i])
			start = i
		}
	}
	return rows
}

// buildLevel reconstructs one record's nested-list shape, driven purely by
// repetition levels against the repeated ancestors on the leaf's path. It
// splits the record's entries into list elements at the current repeated
// ancestor's level and recurses into each element, so the recursion depth is
// the number of repeated ancestors and the number of calls grows with the
// number of list elements.
func buildLevel(entries []asmEntry, depth, maxDepth int, repeatedAncestors []*schema.Node) any {
	if depth == maxDepth {
		e := entries[0]
		if e.hasValue {
			return e.value.Any()
		}
		return nil
	}

	anc := repeatedAncestors[depth]
	repLevel := anc.MaxRepetitionLevel
	ancMaxDef := anc.MaxDefinitionLevel

	var result []any
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || int(entries[i].rep) <= repLevel {
			group := entries[start:i]
			if int(group[0].def) < ancMaxDef {
				result = append(result, nil)
			} else {
				result = append(result, buildLevel(group, depth+1, maxDepth, repeatedAncestors))
			}
			start = i
		}
	}
	return result
}

// betweenNames groups the full ancestor chain's field names into the
// segments that sit between consecutive repeated ancestors (inclusive of
// the repeated ancestor's own name, or the leaf's name at the final
// boundary). wrapChain uses these to restore the group-name structure a
// raw buildLevel result discards.
func betweenNames(chain []*schema.Node, repeatedIdxs []int) [][]string {
	maxDepth := len(repeatedIdxs)
	out := make([][]string, maxDepth+1)
	start := 0
	for i := 0; i < maxDepth; i++ {
		end := repeatedIdxs[i] + 1
		names := make([]string, 0, end-start)
		for j := start; j < end; j++ {
			names = append(names, chain[j].Name())
		}
		out[i] = names
		start = end
	}
	names := make([]string, 0, len(chain)-start)
	for j := start; j < len(chain); j++ {
		names = append(names, chain[j].Name())
	}
	out[maxDepth] = names
	return out
}

// wrapChain restores group-name nesting around a raw buildLevel value,
// producing a self-contained map for RowObject assembly.
func wrapChain(raw any, depth, maxDepth int, names [][]string) any {
	payload := raw
	if depth < maxDepth {
		list, _ := raw.([]any)
		wrapped := make([]any, len(list))
		for i, e := range list {
			wrapped[i] = wrapChain(e, depth+1, maxDepth, names)
		}
		payload = wrapped
	}
	result := payload
	segs := names[depth]
	for k := len(segs) - 1; k >= 0; k-- {
		result = map[string]any{segs[k]: result}
	}
	return result
}

// mergeValues combines two columns' wrapped row values that may overlap at
// shared group or repeated-list paths: maps merge key-wise, equal-role
// lists zip element-wise (two sibling leaves under the same repeated group
// become fields of the same list of records), and anything else resolves
// to the non-nil side.
func mergeValues(a, b any) any {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if am, ok := a.(map[string]any); ok {
		if bm, ok := b.(map[string]any); ok {
			out := make(map[string]any, len(am)+len(bm))
			for k, v := range am {
				out[k] = v
			}
			for k, v := range bm {
				if ev, exists := out[k]; exists {
					out[k] = mergeValues(ev, v)
				} else {
					out[k] = v
				}
			}
			return out
		}
	}
	if al, ok := a.([]any); ok {
		if bl, ok := b.([]any); ok {
			n := len(al)
			if len(bl) > n {
				n = len(bl)
			}
			out := make([]any, n)
			for i := 0; i < n; i++ {
				var av, bv any
				if i < len(al) {
					av = al[i]
				}
				if i < len(bl) {
					bv = bl[i]
				}
				out[i] = mergeValues(av, bv)
			}
			return out
		}
	}
	return b
}

// assembleColumn reconstructs one column's per-row nested values for a full
// row group, concatenating every page's decoded output in page order first.
func assembleColumn(pages []chunkPage, leaf *schema.Node, rowCount int, objectMode bool) []any {
	var defLevels, repLevels []int32
	var values []Value
	for _, p := range pages {
		if p.data.DefinitionLevels != nil {
			defLevels = append(defLevels, p.data.DefinitionLevels...)
		}
		if p.data.RepetitionLevels != nil {
			repLevels = append(repLevels, p.data.RepetitionLevels...)
		}
		values = append(values, p.data.Values...)
	}

	chain := ancestorChain(leaf)
	var repeatedIdxs []int
	var repeatedAncestors []*schema.Node
	for i, n := range chain {
		if n.Repeated() {
			repeatedIdxs = append(repeatedIdxs, i)
			repeatedAncestors = append(repeatedAncestors, n)
		}
	}
	maxDepth := len(repeatedAncestors)

	entries := buildEntries(defLevels, repLevels, values, int32(leaf.MaxDefinitionLevel), rowCount)
	rows := splitRows(entries, maxDepth)

	out := make([]any, len(rows))
	var names [][]string
	if objectMode {
		names = betweenNames(chain, repeatedIdxs)
	}
	for i, row := range rows {
		raw := buildLevel(row, 0, maxDepth, repeatedAncestors)
		if objectMode {
			out[i] = wrapChain(raw, 0, maxDepth, names)
		} else {
			out[i] = raw
		}
	}
	return out
}

// assembleRows turns one row group's per-column decoded pages into rows
// shaped per req.RowFormat (§4.7).
func assembleRows(gp GroupPlan, byColumn map[string][]chunkPage, root *schema.Node, columns []string, req *Request) ([]Row, error) {
	objectMode := req.RowFormat == RowObject
	perColumn := make(map[string][]any, len(columns))

	for _, col := range columns {
		leaf := schema.Find(root, col)
		if leaf == nil {
			return nil, newError(InvalidRequest, "Column '%s' not found", col)
		}
		perColumn[col] = assembleColumn(byColumn[col], leaf, int(gp.GroupRows), objectMode)
	}

	rows := make([]Row, gp.GroupRows)
	for i := range rows {
		if objectMode {
			obj := map[string]any{}
			for _, col := range columns {
				obj = mergeValues(obj, perColumn[col][i]).(map[string]any)
			}
			rows[i] = obj
		} else {
			arr := make([]any, len(columns))
			for ci, col := range columns {
				arr[ci] = perColumn[col][i]
			}
			rows[i] = arr
		}
	}
	return rows, nil
}
