/*
Package ports defines the driven ports (interfaces) of formwork.

These interfaces decouple forms from external implementations, allowing
content to come from files, Loam repositories or memory, and drafts to be
kept in memory, on disk or in Redis.

# Key Interfaces

  - Node: The live state of one content node, as seen by renderers and hosts.
  - ContentLoader: Loads the content tree of a form by ID.
  - DraftStore: Persists and loads the values of a form per session.
  - DistributedLocker: Serializes access to a session across replicas.
*/
package ports
