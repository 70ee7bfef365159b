// Package page wraps one live browser page behind a small, explicit contract.
//
// The browser-automation boundary is the Surface interface: navigation, input
// lookup by accessible name, text injection, and a snapshot of the elements that
// match the output style selector. Adapter layers the harness contract on top:
//
//   - Navigate loads the target and applies the load settle delay.
//   - LocateInput requires exactly one labelled text box.
//   - LocateOutput picks the first selector match that is not an input. On the
//     target page the input and the output share their CSS classes, so the tag
//     and role exclusion in settle.Region.IsInput is part of the contract.
//   - Clear empties the input and waits out the page's debounce.
//   - SetText and TypeIncrementally inject text in bulk or per keystroke.
//   - AwaitReady delegates to the synchronization policy.
//   - ReadOutput is a pure read of the trimmed output text.
//
// Adapter calls against one Surface must be strictly sequential: the page's own
// recomputation races with overlapping writes.
package page
