/*
Package session implements draft management for form sessions.

A Manager wraps a ports.DraftStore and serializes every operation on the
same form and session, in process with reference-counted mutexes and
across replicas with an optional ports.DistributedLocker. Update is the
usual entry point for hosts: it loads the draft (or starts one from the
form's initial value), applies a change and saves it with a bumped
version, all under the lock.
*/
package session
