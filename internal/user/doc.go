// Package user manages inventory users.
//
// Passwords are hashed with Argon2id before they reach the store and the
// hash is never serialized. Emails are trimmed and lowercased, so their
// uniqueness is case-insensitive.
package user
