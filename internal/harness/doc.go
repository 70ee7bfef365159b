// Package harness runs fixture catalogs against a live page.
//
// Every test case gets a fresh page session. The runner drives the session
// through the per-case cycle
//
//	navigate → clear → inject → await ready → read → verdict
//
// and compares the trimmed output with the fixture using exact string
// equality. A failing case is recorded and the run moves on; only context
// cancellation stops a run early.
//
// # Case Categories
//
//   - positive: output must equal the expected text.
//   - negative: asserted per NegativeMode. The default, defect, checks that the
//     page still renders the documented actual output, so a change in the
//     defect shows up as a failure.
//   - ui: the partial input is typed one key at a time, the intermediate
//     output must be non-empty, then the remainder is typed and the final
//     output must equal the expected text.
//
// # Determinism
//
// All waiting goes through a settle.Clock. Tests pass a manual clock and a
// simulated page so that every run takes the same path and golden verdict
// snapshots are byte-identical.
//
// # Usage
//
//	runner := &harness.Runner{
//	    Sessions: launcher,
//	    Target:   page.DefaultTarget(),
//	    Policy:   settle.DefaultPolicy(),
//	}
//	result, err := runner.Run(ctx, catalog)
//	if err != nil {
//	    return err
//	}
//	if !result.Pass() {
//	    for _, v := range result.Failures() {
//	        log.Println(v.ID, v.Message)
//	    }
//	}
package harness
