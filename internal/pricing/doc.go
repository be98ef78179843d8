// Package pricing turns a competing order book into a price recommendation.
//
// Classify decides which ranks of an item are comparable. A Strategy then
// filters the book down to a sample of comparable, tradeable orders and
// picks a price from it:
//
//   - ModeStrategy anchors on the most common price near the top of the book
//   - TierStrategy applies a fixed markup to the best price by price tier
//
// Analyze computes descriptive statistics of the sell side for reports.
package pricing
