// Package auth decides whether a caller may assume a target identity.
//
// It has three layers: the password codec (Encode/Verify over the stored
// hash string), the pre-secret authorization decision (Decide, which
// catches the cases where no proof is required), and the retry flow
// (Flow, one state machine shared by every prompting caller).
package auth
