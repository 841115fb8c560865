package capabilities

import (
	"sort"
)

// Catalog is the in-memory index over a loaded manifest. It is built once
// at startup and never mutated afterward, so any reader may access it
// concurrently without locking (spec.md §5).
type Catalog struct {
	docs map[string]Document
	meta map[string]hitMetadata
	ids  []string
}

// NewCatalog loads the manifest at path and builds the catalog over it.
func NewCatalog(path string) (*Catalog, error) {
	docs, meta, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Catalog{docs: docs, meta: meta, ids: ids}, nil
}

// List returns a Hit for every capability document, in stable (id-sorted)
// order.
func (c *Catalog) List() []Hit {
	hits := make([]Hit, 0, len(c.ids))
	for _, id := range c.ids {
		hits = append(hits, docToHit(c.docs[id], c.meta[id]))
	}
	return hits
}

// Read returns the full document for id, or ok=false if no such
// capability is loaded.
func (c *Catalog) Read(id string) (Document, bool) {
	doc, ok := c.docs[id]
	return doc, ok
}

// Len reports how many capabilities are loaded.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns every loaded capability id, sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

func docToHit(doc Document, meta hitMetadata) Hit {
	summary := meta.Summary
	if summary == "" {
		summary = firstLine(doc.Description)
	}

	whenToUse := meta.WhenToUse
	if whenToUse == "" {
		whenToUse = summary
	}
	if whenToUse == "" {
		whenToUse = "Use when needed."
	}

	requiredArgs := meta.RequiredArgs
	if requiredArgs == nil {
		requiredArgs = requiredArgsFromSchema(doc.ArgSchema)
	}

	example := meta.Example
	if example == "" && len(doc.Examples) > 0 {
		first := doc.Examples[0]
		if first.Call != "" {
			example = first.Call
		} else {
			example = first.Args
		}
	}

	kind := doc.Kind
	switch kind {
	case KindWorkflow, KindRuntimeTool, KindExecutionPattern:
	default:
		kind = KindExecutionPattern
	}

	return Hit{
		ID:           doc.ID,
		Kind:         kind,
		Summary:      summary,
		WhenToUse:    whenToUse,
		RequiredArgs: requiredArgs,
		Example:      example,
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
