// Package scan contains the core pipeline for estimating how likely a set of
// code changes is to be AI-generated.
//
// The pipeline runs in four stages: a deterministic file filter drops binary
// and excluded paths, a single statistics pass derives the signals consumed
// by rule evaluation, a greedy partitioner groups files into classifier-sized
// batches, and an aggregator folds the per-batch verdicts into one weighted
// probability with a pattern union, a worst-quality rollup, and a per-batch
// rationale trail.
//
// Batches are classified strictly sequentially — classifier calls are rate
// and cost sensitive, and the rationale trail must stay in batch order. One
// batch's failure never aborts the run: it contributes an error line and zero
// probability weight, and the report ends in a partial status.
package scan
