// Package session owns the authenticated marketplace session: the sign-in
// token, the signed-in user and the presence connection used to change the
// account's visible status.
//
// A Manager is passed explicitly to whatever needs it. It also serves as the
// token source of the REST client.
package session
