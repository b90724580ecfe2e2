package gateway

import "github.com/fystack/cip68-minter/internal/cip68"

// BuildResponse is the envelope for mint/update/burn build calls. On
// failure Message carries the backend's reason verbatim; it is shown to
// the user as-is.
type BuildResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TxCbor    string `json:"tx_cbor"`
	PolicyID  string `json:"policy_id"`
	TokenName string `json:"token_name"`
}

// SubmitResponse acknowledges a signed transaction.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxHash  string `json:"tx_hash"`
}

// WalletInfoResponse is the flat balance listing for an address.
type WalletInfoResponse struct {
	Success         bool              `json:"success"`
	Address         string            `json:"address"`
	BalanceLovelace uint64            `json:"balance_lovelace"`
	UtxoCount       int               `json:"utxo_count"`
	Assets          []cip68.AssetUnit `json:"assets"`
}

// MetadataResponse carries the current datum contents of one token.
type MetadataResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`
	Version  int               `json:"version"`
}

// ConvertAddressResponse is the bech32 form of a provider-native hex
// address. Best effort: callers fall back to the hex form on failure.
type ConvertAddressResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	HexAddress    string `json:"hex_address"`
	Bech32Address string `json:"bech32_address"`
}

// ScriptInfoResponse describes the deployed contracts.
type ScriptInfoResponse struct {
	PolicyID     string `json:"policy_id"`
	StoreHash    string `json:"store_hash"`
	StoreAddress string `json:"store_address"`
	Network      string `json:"network"`
}

// TokenInfo is one issued token as seen from the store address.
type TokenInfo struct {
	TokenName string `json:"token_name"`
	PolicyID  string `json:"policy_id"`
	Owner     string `json:"owner,omitempty"`
	Version   int    `json:"version,omitempty"`
}

// ListTokensResponse enumerates every CIP-68 token the platform issued.
type ListTokensResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Tokens  []TokenInfo `json:"tokens"`
	Count   int         `json:"count"`
}

type mintRequest struct {
	WalletAddress string `json:"wallet_address"`
	TokenName     string `json:"token_name"`
	Description   string `json:"description"`
}

type updateRequest struct {
	WalletAddress  string `json:"wallet_address"`
	PolicyID       string `json:"policy_id"`
	TokenName      string `json:"token_name"`
	NewDescription string `json:"new_description"`
}

type burnRequest struct {
	WalletAddress string `json:"wallet_address"`
	PolicyID      string `json:"policy_id"`
	TokenName     string `json:"token_name"`
	SeedRef       string `json:"seed_ref,omitempty"`
}

type submitRequest struct {
	TxCbor         string `json:"tx_cbor"`
	WitnessSetCbor string `json:"witness_set_cbor"`
}
