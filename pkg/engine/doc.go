// Package engine runs virtual package detection.
//
// A detection run has three steps:
//
//  1. Facts - the FactsCollector maps the running platform to a conda-style subdir
//     and merges in facts pinned by configuration.
//  2. Hooks - the plugin Manager invokes every registered plugin in order and merges
//     the records they report.
//  3. Snapshot - when a store is attached, the Detector persists the result.
//
// Failures are returned as *EngineError values classified for retry decisions:
//
//	report, err := detector.Detect(ctx)
//	if engine.IsConflict(err) {
//	    // two plugins disagree about a record
//	}
package engine
