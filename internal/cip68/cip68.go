// Package cip68 classifies on-chain asset balances into CIP-68
// reference/user token pairs issued by the platform policy.
//
// CIP-68 pairs a Reference Token (label 100, holds the metadata datum)
// with a User Token (label 222, held by the end user). Both share the
// token name after the 4-byte label prefix.
package cip68

import (
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// PlatformPolicyID is the fixed minting policy of the
	// non-parameterized contracts. Assets under any other policy are
	// never surfaced.
	PlatformPolicyID = "9a97fb710a29382d31d9d2a40faab64e5c8be912419a806425bfc7d4"

	// ReferencePrefix is the CIP-68 label 100 prefix (hex).
	ReferencePrefix = "000643b0"
	// UserPrefix is the CIP-68 label 222 prefix (hex).
	UserPrefix = "000de140"
)

// Role tags which half of a CIP-68 pair an asset is.
type Role string

const (
	RoleReference Role = "reference"
	RoleUser      Role = "user"
)

// AssetUnit is one raw balance entry as returned by the balance query
// service. AssetName is the hex-encoded on-chain asset name.
type AssetUnit struct {
	PolicyID  string          `json:"policy_id"`
	AssetName string          `json:"asset_name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ClassifiedAsset is a platform-owned CIP-68 asset with its label
// stripped and name decoded.
type ClassifiedAsset struct {
	PolicyID  string
	AssetName string // original hex name, label included
	TokenName string // decoded name, hex fallback
	Role      Role
	Quantity  decimal.Decimal
}

// Classify partitions raw balance units into platform CIP-68 assets.
// Foreign policies and unlabeled names are dropped silently; output
// preserves input order. Classify never fails: an undecodable token
// name keeps its hex form.
func Classify(units []AssetUnit) []ClassifiedAsset {
	out := make([]ClassifiedAsset, 0, len(units))
	for _, u := range units {
		if u.PolicyID != PlatformPolicyID {
			continue
		}

		var role Role
		name := strings.ToLower(u.AssetName)
		switch {
		case strings.HasPrefix(name, ReferencePrefix):
			role = RoleReference
		case strings.HasPrefix(name, UserPrefix):
			role = RoleUser
		default:
			continue
		}

		out = append(out, ClassifiedAsset{
			PolicyID:  u.PolicyID,
			AssetName: u.AssetName,
			TokenName: DecodeTokenName(name[len(ReferencePrefix):]),
			Role:      role,
			Quantity:  u.Quantity,
		})
	}
	return out
}

// UserTokens filters a classification down to the user half of each
// pair, the "NFTs I can manage" view.
func UserTokens(assets []ClassifiedAsset) []ClassifiedAsset {
	out := make([]ClassifiedAsset, 0, len(assets))
	for _, a := range assets {
		if a.Role == RoleUser {
			out = append(out, a)
		}
	}
	return out
}

// DecodeTokenName turns the hex remainder of an asset name into text.
// Non-hex, non-UTF-8 or non-printable input falls back to the hex
// string itself.
func DecodeTokenName(hexName string) string {
	raw, err := hex.DecodeString(hexName)
	if err != nil {
		return hexName
	}
	if !utf8.Valid(raw) {
		return hexName
	}
	for _, r := range string(raw) {
		if !unicode.IsPrint(r) {
			return hexName
		}
	}
	return string(raw)
}

// ReferenceAssetName builds the hex on-chain name of the reference
// token for a given token name.
func ReferenceAssetName(tokenName string) string {
	return ReferencePrefix + hex.EncodeToString([]byte(tokenName))
}

// UserAssetName builds the hex on-chain name of the user token for a
// given token name.
func UserAssetName(tokenName string) string {
	return UserPrefix + hex.EncodeToString([]byte(tokenName))
}
