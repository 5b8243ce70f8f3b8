package parquet

// Dictionary is the column-chunk-scoped ordered sequence of decoded values
// referenced by RLE_DICTIONARY/PLAIN_DICTIONARY data pages in the same
// chunk (§3). Read-only: this module never writes parquet files, so unlike
// the teacher's Dictionary type there is no insert/bounds/encode side.
type Dictionary struct {
	Values []Value
}

func (d *Dictionary) Len() int { return len(d.Values) }

// Lookup returns the dictionary entry at i, or the zero Value and false if
// i is out of range — a corrupt data page may reference an index beyond
// the dictionary's size.
func (d *Dictionary) Lookup(i int32) (Value, bool) {
	if d == nil || i < 0 || int(i) >= len(d.Values) {
		return Value{}, false
	}
	return d.Values[i], true
}
