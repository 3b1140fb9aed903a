// Package dataset loads the company JSON snapshot into raw record types.
//
// Raw records keep every field optional (pointers) so that a missing field
// can be told apart from a zero value; the working-set builder decides which
// records need which fields and calls the Validator accordingly. IDs and
// numeric fields accept either JSON numbers or strings.
package dataset
