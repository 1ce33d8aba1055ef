package translator

// ChangeEvent is one row of a changelog stream. Row holds the value of each configured column,
// in configured order; nil is a null value.
type ChangeEvent struct {
	Upsert bool
	Row    []any
}

// Cell is a single value addressed by family and qualifier.
type Cell struct {
	Family    string
	Qualifier string
	Value     []byte
}

// WriteRequest is a point write of one row.
type WriteRequest struct {
	RowKey []byte
	Cells  []Cell
}

// DeleteRequest is a point delete of one row.
type DeleteRequest struct {
	RowKey []byte
}

// Kind is the result of translating a ChangeEvent.
type Kind int

const (
	KindSkip Kind = iota
	KindWrite
	KindDelete
	KindDirty
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindWrite:
		return "write"
	case KindDelete:
		return "delete"
	case KindDirty:
		return "dirty"
	}
	return "unknown"
}

// Outcome carries exactly one of Write or Delete for KindWrite/KindDelete, and the reason in Err
// for KindDirty.
type Outcome struct {
	Kind   Kind
	Write  *WriteRequest
	Delete *DeleteRequest
	Err    error
}
