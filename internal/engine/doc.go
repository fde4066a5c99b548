// Package engine implements the time-optimization core: slot aggregation,
// scoring, publish-time recommendation, schedule reconciliation, and A/B
// test resolution.
package engine
