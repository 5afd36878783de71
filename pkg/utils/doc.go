// Package utils provides small helpers shared by the retrieval packages:
// vector similarity, case-insensitive string handling and panic recovery
// for background goroutines.
package utils
