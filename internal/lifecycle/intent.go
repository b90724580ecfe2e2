package lifecycle

import (
	"errors"
	"fmt"
)

const (
	maxTokenNameLen   = 32
	maxDescriptionLen = 256
)

var (
	ErrEmptyTokenName  = errors.New("token name is empty")
	ErrTokenNameTooBig = fmt.Errorf("token name exceeds %d bytes", maxTokenNameLen)
	ErrDescriptionBig  = fmt.Errorf("description exceeds %d bytes", maxDescriptionLen)
)

type IntentKind string

const (
	IntentMint   IntentKind = "mint"
	IntentUpdate IntentKind = "update"
	IntentBurn   IntentKind = "burn"
)

// Intent is a user-requested mutation awaiting execution. Immutable
// once handed to Run; re-running the same logical action means a brand
// new attempt.
type Intent interface {
	Kind() IntentKind
	Token() string
	Validate() error
}

// MintIntent creates a new reference/user token pair.
type MintIntent struct {
	TokenName   string
	Description string
}

func (i MintIntent) Kind() IntentKind { return IntentMint }
func (i MintIntent) Token() string    { return i.TokenName }

func (i MintIntent) Validate() error {
	if i.TokenName == "" {
		return ErrEmptyTokenName
	}
	if len(i.TokenName) > maxTokenNameLen {
		return ErrTokenNameTooBig
	}
	if i.Description == "" || len(i.Description) > maxDescriptionLen {
		return ErrDescriptionBig
	}
	return nil
}

// UpdateIntent rewrites the datum of an existing pair's reference
// token; the version counter increments on-chain.
type UpdateIntent struct {
	PolicyID       string
	TokenName      string
	NewDescription string
}

func (i UpdateIntent) Kind() IntentKind { return IntentUpdate }
func (i UpdateIntent) Token() string    { return i.TokenName }

func (i UpdateIntent) Validate() error {
	if i.TokenName == "" {
		return ErrEmptyTokenName
	}
	if i.NewDescription == "" || len(i.NewDescription) > maxDescriptionLen {
		return ErrDescriptionBig
	}
	return nil
}

// BurnIntent destroys both halves of a pair. SeedRef selects the
// seed-UTxO policy-derivation flow; empty means the fixed platform
// policy.
type BurnIntent struct {
	PolicyID  string
	TokenName string
	SeedRef   string
}

func (i BurnIntent) Kind() IntentKind { return IntentBurn }
func (i BurnIntent) Token() string    { return i.TokenName }

func (i BurnIntent) Validate() error {
	if i.TokenName == "" {
		return ErrEmptyTokenName
	}
	return nil
}
