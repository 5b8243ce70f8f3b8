package parquet

import (
	"github.com/honeymaro/hyparquet-go/format"
	"github.com/honeymaro/hyparquet-go/schema"
)

// schemaTree builds the navigable schema tree from a footer's flattened
// SchemaElement list, wrapping schema.Build as a CorruptMetadata failure.
func schemaTree(md *format.FileMetaData) (*schema.Node, error) {
	root, err := schema.Build(md.Schema)
	if err != nil {
		return nil, wrapError(CorruptMetadata, err, "parsing schema")
	}
	return root, nil
}

// leafPaths returns every leaf column's dotted path, in column order.
func leafPaths(root *schema.Node) []string {
	leaves := schema.Leaves(root)
	paths := make([]string, len(leaves))
	for i, l := range leaves {
		paths[i] = l.PathString()
	}
	return paths
}
