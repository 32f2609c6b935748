// Package models defines the domain types for fdn.
package models

// DefaultSeparator is used when no separator is stored.
const DefaultSeparator = "_"

// Separator is the token that replaces recognized word boundaries.
type Separator struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// ToSepWord is a literal substring replaced by the active separator.
type ToSepWord struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// TermWord is a literal substring Key replaced by Value.
type TermWord struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is one applied rename. HashedCurrentName is the fingerprint of the
// name produced by the rename; EncryptedPreviousName is the name it replaced,
// encrypted with the produced name as key.
type Record struct {
	ID                    int64  `json:"id"`
	HashedCurrentName     string `json:"hashed_current_name"`
	EncryptedPreviousName string `json:"encrypted_previous_name"`
	Count                 int    `json:"count"`
}
