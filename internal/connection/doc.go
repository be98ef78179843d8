// Package connection implements the presence WebSocket client.
//
// The presence channel is the only way to change an account's visible
// status on the marketplace. A Client:
//   - Dials ws_url?platform=<platform> with the session JWT as a cookie
//   - Moves through Disconnected -> Connecting -> Open -> Closed
//   - Publishes every state change on a buffered Transitions channel
//   - Answers server pings and sends keepalive pings of its own
//
// A Client is single use. Once Closed, dial a new one.
package connection
