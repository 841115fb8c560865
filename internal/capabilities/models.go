// Package capabilities implements the Manifest Store and Capability
// Catalog: the source of truth for capability metadata and argument
// schemas, and the in-memory index over it.
package capabilities

// Kind tags a capability document as one of the three variants the
// manifest carries. Modelling it as a string tag on a common record
// (rather than a class hierarchy per variant) keeps the type portable,
// per the teacher's own preference for flat, JSON-friendly structs over
// deep interface hierarchies.
type Kind string

const (
	KindWorkflow         Kind = "workflow"
	KindRuntimeTool      Kind = "runtime_tool"
	KindExecutionPattern Kind = "execution_pattern"
	// KindError is never stored in the catalog; it is the shape the
	// broker (out of scope for this module) wraps a read_capability miss
	// in. ErrorDocument below builds one.
	KindError Kind = "error"
)

// ArgType enumerates the scalar types an argument schema entry may carry.
type ArgType string

const (
	ArgTypeString  ArgType = "string"
	ArgTypeInteger ArgType = "integer"
	ArgTypeBoolean ArgType = "boolean"
)

// ArgSchemaEntry describes one named argument of a capability's
// arg_schema map. Minimum/Maximum are only meaningful for ArgTypeInteger.
type ArgSchemaEntry struct {
	Type     ArgType
	Required bool
	Default  any
	Minimum  *float64
	Maximum  *float64
}

// Example is one entry of a capability document's examples list. The
// manifest format leaves this opaque; Call and Args are the two
// well-known fields list_capabilities falls back to when deriving a hit's
// Example field.
type Example struct {
	Call string
	Args string
	Raw  map[string]any
}

// Document is the full capability record: everything the manifest
// declared for one id.
type Document struct {
	ID                  string
	Kind                Kind
	Description         string
	ArgSchema           map[string]ArgSchemaEntry
	Examples            []Example
	Constraints         []string
	ExpectedOutputShape map[string]any
	// ScriptPath is only populated for workflow documents: the relative
	// file location of the payload program.
	ScriptPath string
}

// Hit is the short-form capability descriptor used in list views.
type Hit struct {
	ID           string
	Kind         Kind
	Summary      string
	WhenToUse    string
	RequiredArgs []string
	Example      string
}

// ErrorDocument builds the error-shaped document a read_capability caller
// (the broker) surfaces when an id is absent from the catalog. The
// catalog itself never returns this from Read — presentation of a miss is
// the broker's call, per spec.
func ErrorDocument(id string) Document {
	return Document{
		ID:          id,
		Kind:        KindError,
		Description: "no capability named \"" + id + "\" exists in the loaded manifest",
	}
}
