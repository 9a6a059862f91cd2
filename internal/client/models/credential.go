package models

import "time"

// Collector is the identity profile of a field worker.
type Collector struct {
	ID     string
	Name   string
	Region string
}

// Credential is the locally cached identity proof enabling offline login.
// The PIN never touches disk: Verifier is a hash of the argon2id-derived
// key and Salt is the random salt used for the derivation. At most one row
// is kept per collector id; each successful online login overwrites it.
type Credential struct {
	CollectorID string
	Salt        []byte
	Verifier    []byte
	Name        string
	Region      string
	LastLogin   time.Time
}
