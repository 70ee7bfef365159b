package fixture

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// schema holds the compiled #TestCase definition. cue values are not safe for
// concurrent use, so every use goes through mu.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	def  cue.Value
	err  error
}

func testCaseDef() (cue.Value, error) {
	schema.once.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schema.err = fmt.Errorf("compile fixture schema: %w", err)
			return
		}
		schema.def = v.LookupPath(cue.ParsePath("#TestCase"))
		if err := schema.def.Err(); err != nil {
			schema.err = fmt.Errorf("lookup #TestCase: %w", err)
		}
	})
	return schema.def, schema.err
}

// validateSchema unifies tc with #TestCase and requires a concrete result.
func validateSchema(tc TestCase) error {
	def, err := testCaseDef()
	if err != nil {
		return err
	}

	schema.mu.Lock()
	defer schema.mu.Unlock()

	v := def.Context().Encode(tc)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode case: %w", err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
