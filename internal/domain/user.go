// Package domain contains entity types without logic, just meta-data.
package domain

// ConnID identifies one live websocket connection. A fresh one is issued
// per upgrade and never reused after disconnect.
type ConnID string

// UserID is the identity-provider id of an authenticated player.
// Anonymous connections carry none.
type UserID string
