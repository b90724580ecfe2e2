package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// BuildMint asks the backend for an unsigned mint transaction.
func (c *Client) BuildMint(ctx context.Context, walletAddress, tokenName, description string) (*BuildResponse, error) {
	return c.build(ctx, "/api/mint", mintRequest{
		WalletAddress: walletAddress,
		TokenName:     tokenName,
		Description:   description,
	})
}

// BuildUpdate asks the backend for an unsigned metadata-update
// transaction.
func (c *Client) BuildUpdate(ctx context.Context, walletAddress, policyID, tokenName, newDescription string) (*BuildResponse, error) {
	return c.build(ctx, "/api/update", updateRequest{
		WalletAddress:  walletAddress,
		PolicyID:       policyID,
		TokenName:      tokenName,
		NewDescription: newDescription,
	})
}

// BuildBurn asks the backend for an unsigned burn transaction. seedRef
// is optional: when set the backend derives the policy from that seed
// UTxO instead of the fixed policy id.
func (c *Client) BuildBurn(ctx context.Context, walletAddress, policyID, tokenName, seedRef string) (*BuildResponse, error) {
	return c.build(ctx, "/api/burn", burnRequest{
		WalletAddress: walletAddress,
		PolicyID:      policyID,
		TokenName:     tokenName,
		SeedRef:       seedRef,
	})
}

func (c *Client) build(ctx context.Context, endpoint string, req any) (*BuildResponse, error) {
	data, err := c.Do(ctx, http.MethodPost, endpoint, req, nil)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}

	var resp BuildResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal build response: %w", err)
	}
	return &resp, nil
}

// Submit sends the unsigned transaction plus the wallet's witness set
// for merge-and-broadcast.
func (c *Client) Submit(ctx context.Context, txCbor, witnessSetCbor string) (*SubmitResponse, error) {
	data, err := c.Do(ctx, http.MethodPost, "/api/submit", submitRequest{
		TxCbor:         txCbor,
		WitnessSetCbor: witnessSetCbor,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("submit request failed: %w", err)
	}

	var resp SubmitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal submit response: %w", err)
	}
	return &resp, nil
}

// WalletInfo fetches the flat asset balance listing for an address.
func (c *Client) WalletInfo(ctx context.Context, address string) (*WalletInfoResponse, error) {
	data, err := c.Do(ctx, http.MethodGet, "/api/wallet/"+address, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet info request failed: %w", err)
	}

	var resp WalletInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal wallet info response: %w", err)
	}
	return &resp, nil
}

// Metadata reads the current on-chain metadata of one token. The
// backend resolves the reference token under the fixed policy, so only
// the token name is needed.
func (c *Client) Metadata(ctx context.Context, tokenName string) (*MetadataResponse, error) {
	data, err := c.Do(ctx, http.MethodGet, "/api/metadata/"+tokenName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}

	var resp MetadataResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal metadata response: %w", err)
	}
	return &resp, nil
}

// ConvertAddress normalizes a provider-native hex address to bech32.
// On any failure the caller should keep using the hex address.
func (c *Client) ConvertAddress(ctx context.Context, hexAddress string) (*ConvertAddressResponse, error) {
	data, err := c.Do(ctx, http.MethodGet, "/api/convert-address", nil, map[string]string{
		"hex_address": hexAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("convert address request failed: %w", err)
	}

	var resp ConvertAddressResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal convert address response: %w", err)
	}
	return &resp, nil
}

// NormalizeAddress wraps ConvertAddress with the documented fallback:
// the raw provider address is used as-is when conversion fails.
func (c *Client) NormalizeAddress(ctx context.Context, address string) string {
	resp, err := c.ConvertAddress(ctx, address)
	if err != nil || !resp.Success || resp.Bech32Address == "" {
		return address
	}
	return resp.Bech32Address
}

// ScriptInfo describes the deployed minting and store scripts.
func (c *Client) ScriptInfo(ctx context.Context) (*ScriptInfoResponse, error) {
	data, err := c.Do(ctx, http.MethodGet, "/api/script-info", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("script info request failed: %w", err)
	}

	var resp ScriptInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal script info response: %w", err)
	}
	return &resp, nil
}

// ListTokens enumerates every token issued under the platform policy.
func (c *Client) ListTokens(ctx context.Context) (*ListTokensResponse, error) {
	data, err := c.Do(ctx, http.MethodGet, "/api/tokens", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list tokens request failed: %w", err)
	}

	var resp ListTokensResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal list tokens response: %w", err)
	}
	return &resp, nil
}
