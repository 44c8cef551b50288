// Package middleware decorates a ports.DraftStore: NewEncryptionMiddleware
// seals draft values with AES-GCM and NewPIIMiddleware masks sensitive keys
// before they are persisted. Chain composes them.
package middleware
