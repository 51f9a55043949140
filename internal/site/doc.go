// Package site turns user-supplied competitor input into the canonical
// domain key used for storage and lookup, and defines the errors that make
// a whole analysis run fail.
package site
