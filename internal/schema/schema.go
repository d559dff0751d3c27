// Package schema validates transaction payloads against a CUE schema.
//
// Validation is a pipeline-boundary concern: the ledger itself accepts
// any canonically-encodable payload, but a deployment can constrain
// what enters the pending queue by unifying each payload with a CUE
// definition before submission.
package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// DefaultDefinition is the schema path looked up in a CUE file:
// a top-level #Transaction definition.
const DefaultDefinition = "#Transaction"

// Validator checks payloads against a compiled CUE schema.
type Validator struct {
	schema cue.Value
}

// Compile builds a Validator from CUE source. The source must define
// DefaultDefinition, e.g.:
//
//	#Transaction: {
//		from:   string
//		to:     string
//		amount: number & >0
//	}
func Compile(source string) (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(source)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %s", cueerrors.Details(err, nil))
	}

	schema := v.LookupPath(cue.ParsePath(DefaultDefinition))
	if !schema.Exists() {
		return nil, fmt.Errorf("compile schema: missing %s definition", DefaultDefinition)
	}
	return &Validator{schema: schema}, nil
}

// CompileFile builds a Validator from a CUE file on disk.
func CompileFile(path string) (*Validator, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(string(source))
}

// Validate unifies tx with the schema and reports any conflict.
func (v *Validator) Validate(tx map[string]any) error {
	ctx := v.schema.Context()
	payload := ctx.Encode(tx)
	if err := payload.Err(); err != nil {
		return fmt.Errorf("encode payload: %s", cueerrors.Details(err, nil))
	}

	unified := v.schema.Unify(payload)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("transaction does not satisfy schema: %s", cueerrors.Details(err, nil))
	}
	return nil
}
