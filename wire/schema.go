package wire

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaErr  error
)

func compileSchema() error {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		schema := schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := schema.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling wire schema: %w", err)
			return
		}
		if !schema.LookupPath(cue.ParsePath("#Query")).Exists() {
			schemaErr = fmt.Errorf("wire schema has no #Query definition")
		}
	})
	return schemaErr
}

// ValidatePayload checks serialized payload bytes against the embedded
// schema of the wire vocabulary. Serializer output always passes; the
// check exists for payloads that arrive from elsewhere (files, the
// catalog) and as a regression net for the serializer itself.
//
// The payload is spliced into the schema source and the combined
// document compiled as one unit: closed-struct checking only reaches
// fields nested inside definitions when schema and payload unify in
// the same source, not when a standalone value is unified after the
// fact.
func ValidatePayload(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}
	expr, err := cuejson.Extract("payload.json", data)
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	src, err := format.Node(expr)
	if err != nil {
		return fmt.Errorf("building payload value: %w", err)
	}
	doc := schemaCUE + "\npayload: #Query\npayload: " + string(src) + "\n"
	val := schemaCtx.CompileString(doc, cue.Filename("payload.cue"))
	if err := val.Err(); err != nil {
		return fmt.Errorf("payload does not match wire schema: %w", err)
	}
	payload := val.LookupPath(cue.ParsePath("payload"))
	if err := payload.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("payload does not match wire schema: %w", err)
	}
	return nil
}
