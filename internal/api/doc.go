// Package api provides the REST client for the warframe.market v1 API.
//
// REST endpoint:
//   - https://api.warframe.market/v1
//
// Presence WebSocket endpoint (see package connection):
//   - wss://warframe.market/socket?platform=pc
//
// Mutating endpoints (order update/delete, own profile) require the token
// returned in the Authorization header of POST /auth/signin.
package api
