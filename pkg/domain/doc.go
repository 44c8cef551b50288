/*
Package domain contains the core domain models of a formwork form.

It defines the configuration tree a form is built from, the strategies that
drive each node's state, and the records hosts persist or observe. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Content: a configuration node, either a Control (leaf) or a Group.
  - HideStrategy / ValueStrategy: what happens to a node's model entry and
    value when its visibility rule changes.
  - Draft: the persisted value of a form for one session.
  - LifecycleHooks: callbacks fired when the engine attaches, detaches,
    enables, disables or resets a node.
*/
package domain
