// Package engine keeps each content node's model entry in step with the
// node's rules.
//
// Every node derives hidden, disabled and readonly from its rules and from
// its parent group, and resolves its hide and value strategies. Two effects
// act on the derived state:
//
//   - the visibility effect attaches the node's model instance to its
//     container, detaches it (hide strategy "remove") and applies the value
//     strategy;
//   - the disabled effect enables or disables the attached instance.
//
// All model mutations made here are silent, so they never feed back into
// the whole-form value the rules read.
package engine
