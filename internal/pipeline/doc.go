// Package pipeline runs the four conversion passes in order:
//
//	clear ranges  -> fragment table
//	FRG details   -> names and sequences merged into the table
//	CCO records   -> contig table (placements resolved against fragments)
//	contig report -> written in accession order
//
// Only I/O failures and cancellation stop a run; row-level problems are
// reported to the diag.Sink and the run carries on.
package pipeline
