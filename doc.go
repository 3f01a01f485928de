// Package amino provides a schema-first classification rules engine.
//
// Users declare a typed data schema in a small schema language, author
// conditional rule expressions in a separate expression language, and
// ask an Engine to compile those rules against the schema and evaluate
// them against incoming decisions, producing a MatchResult.
//
// Typical use is as follows:
//
//  1. Write schema text describing the fields a decision will carry.
//  2. Construct an Engine from that text, optionally registering
//     custom types, operators, and functions before first use.
//  3. Compile a set of rules against the engine, choosing a match mode.
//  4. Evaluate the compiled set against one decision, or a batch.
//  5. Inspect the resulting MatchResult, or render it as a report.
//
// # Engine lifecycle
//
// An Engine is mutable only until its first Compile or Eval call. That
// call freezes the engine: every later attempt to register a function,
// type, or operator fails with an EngineAlreadyFrozenError. This mirrors
// the freeze-before-use discipline used throughout this package's
// registries — schema, type, and operator registration is a
// construction-time activity, never a runtime one.
//
// # Concurrency
//
// An Engine is single-threaded by contract: registration must
// happen-before any Compile or Eval call. The engine holds a mutex around
// its frozen flag and registration methods, but does not order
// registration against concurrent Compile or Eval calls. A CompiledRuleSet, once produced, is read-only
// and may be shared and evaluated concurrently by multiple callers.
// Hot-swapping rules is a matter of compiling a new CompiledRuleSet and
// atomically replacing the caller's reference to it; existing holders of
// the old set continue to see a consistent snapshot.
package amino
