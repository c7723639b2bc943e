// Package schema holds the validation primitives used to check a raw device
// document and turn it into a resolved configuration tree.
//
// A schema is a tree of Node values. Validate never stops at the first
// problem: every violation is recorded in the Context's Report together with
// its dotted path, so a caller can fix a document in one pass.
package schema
