// Package diag defines the diagnostic model shared by the projection phases.
//
// Projection never fails on degraded input: an attribute blob that does not
// decode, a signature that references an unknown token or a constant whose
// runtime value disagrees with its declared type still produce syntax. Such
// degradations are reported here so callers can surface them.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary: the Subject (type or entity) the finding is about.
//   - Notes: optional secondary subjects with messages.
//
// # Reporting
//
// Producers talk to a Reporter. BagReporter collects into a Bag,
// DedupReporter suppresses repeats and NopReporter drops everything.
// ReportBuilder offers a fluent way to attach notes before emitting.
//
// Package diag performs no formatting or IO; the CLI renders diagnostics.
package diag
