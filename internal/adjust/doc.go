// Package adjust runs batch price adjustment over the caller's own listings.
//
// The Orchestrator:
//   - Walks visible listings of one side strictly in order, one at a time
//   - Skips leveled items not listed at max rank
//   - Prices each listing against its item's order book
//   - Leaves listings within 5% of the recommendation alone
//   - Updates prices in apply mode, or only reports them in dry-run mode
//   - Paces every marketplace call through a ratelimit.Pacer
//
// A failure on one listing is recorded and the batch moves on.
package adjust
