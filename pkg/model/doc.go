/*
Package model is the form model: leaf Controls holding values and keyed
Groups holding children.

Every mutation recomputes validation status and, unless Silent is passed,
notifies value-change subscribers before walking up to the parent (unless
OnlySelf is passed). Group values only include enabled children; RawValue
includes all of them.

The model is not safe for concurrent use. ValidateAsync is the one entry
point that fans work out to goroutines; it only hands validators a snapshot
of the value and applies their results on the calling goroutine.
*/
package model
