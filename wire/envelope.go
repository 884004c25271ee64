package wire

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/quarry/ast"
)

// Envelope is what the external network client submits: the serialized
// query plus connection, branch, and commit context. This package does
// not transport it anywhere; it only guarantees the shape and the
// deterministic bytes.
type Envelope struct {
	RequestID string // unique per submission, for correlation
	Org       string
	DB        string
	Branch    string // empty means the client's default branch
	Commit    string // pin to a commit instead of a branch head, optional
	Query     Obj
}

// NewEnvelope serializes a query into a submission envelope with a
// fresh request ID.
func NewEnvelope(q ast.Query, org, db string) (*Envelope, error) {
	obj, err := ForQuery(q)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		RequestID: uuid.NewString(),
		Org:       org,
		DB:        db,
		Query:     obj,
	}, nil
}

// OnBranch returns a copy of the envelope targeting the named branch.
func (e *Envelope) OnBranch(branch string) *Envelope {
	out := *e
	out.Branch = branch
	return &out
}

// AtCommit returns a copy of the envelope pinned to a commit.
func (e *Envelope) AtCommit(commit string) *Envelope {
	out := *e
	out.Commit = commit
	return &out
}

// MarshalCanonical serializes the envelope to canonical JSON. Optional
// context fields are absent when empty, never null.
func (e *Envelope) MarshalCanonical() ([]byte, error) {
	if e.Query == nil {
		return nil, fmt.Errorf("envelope without query")
	}
	obj := Obj{
		"request_id": Str(e.RequestID),
		"org":        Str(e.Org),
		"db":         Str(e.DB),
		"query":      e.Query,
	}
	if e.Branch != "" {
		obj["branch"] = Str(e.Branch)
	}
	if e.Commit != "" {
		obj["commit"] = Str(e.Commit)
	}
	return MarshalCanonical(obj)
}
