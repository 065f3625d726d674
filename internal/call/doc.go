// Package call models auction calls and call histories.
//
// A call is a contract bid (level 1-7 plus a strain), pass, double, or
// redouble. A History records the calls made so far on a board, tracks
// whose turn it is, and answers legality questions so that rule matching
// only ever sees calls that could actually be made.
//
// Values in this package are immutable: History.Extend returns a new
// History rather than mutating the receiver, so interpreted auction
// prefixes can be shared freely.
package call
