// Package model defines shared data types used across the market pricer.
//
// Conventions:
//   - Prices: integer platinum (the marketplace currency has no fractional units)
//   - Timestamps: time.Time in UTC as reported by the marketplace
//   - Item keys: the marketplace url_name (e.g. "ember_prime_set")
package model
