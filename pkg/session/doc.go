// Package session implements the console's stateless login session.
//
// A session is a signed cookie carrying the username, the issue time and a
// random token ID. [Gate.Check] verifies the signature and the validity
// window and reports failures as [*UnauthenticatedError] with one of three
// reasons: missing, expired or malformed. Nothing is stored server-side
// except, optionally, the IDs of tokens ended by logout (see [Revoker]).
//
//	gate, err := session.NewGate(cookies, session.WithTTL(24*time.Hour))
//	tok, err := gate.Check(r)
//	if ue, ok := session.AsUnauthenticated(err); ok {
//		// ue.Reason is ReasonMissing, ReasonExpired or ReasonMalformed
//	}
package session
