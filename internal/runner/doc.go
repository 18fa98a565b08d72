// Package runner drives the alternation between consulting the model and
// executing the tools it requests, until the model answers without tool
// calls.
//
// Invariants:
//   - tool_use and the corresponding tool_result are kept adjacent within a
//     turn, so the transcript always window-trims cleanly.
//   - the standing usage policy is sent as the system prompt on every model
//     consultation.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
package runner
