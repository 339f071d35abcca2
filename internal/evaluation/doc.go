// Package evaluation turns raw course-evaluation rows into merged section records.
//
// This package holds all of the decision logic of the normalizer and has no I/O
// dependencies. Row sources and sinks live in their own packages and talk to
// this one through plain values: a row is a []string, and the result is the
// ordered list of [Accumulator] values held by a [Registry].
//
// # Eras
//
// Every historical spreadsheet layout is described by a [Layout] in a single
// table keyed by [Era]. A layout names the column of every field, the first
// data row, and whether 1-7 scores must be rescaled to 1-5:
//
//	layout, _ := evaluation.LookupEra(evaluation.EraModern)
//	rec, err := layout.Interpret(row, i)
//
// New layouts are added with [RegisterEra] instead of new types.
//
// # Accumulation
//
// A [Registry] keeps accumulators in creation order. Each incoming [Record]
// is offered to every accumulator teaching the same course; the accumulator
// decides whether the record is a crosslist repeat, another instructor of
// the same section, or a sibling section. A valid record that no accumulator
// contains starts a new one.
//
// # Errors
//
// A row whose identity fields cannot be read yields a [*RowParseError] and
// the caller is expected to abort the file. Rows with unreadable or
// out-of-range scores are not errors: they parse into a [Record] whose
// [Record.Validity] reports a [Reason] and are dropped by the registry.
package evaluation
