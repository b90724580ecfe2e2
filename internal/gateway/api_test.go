package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler, auth *AuthConfig) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, auth, 5*time.Second, nil)
	return client, server
}

func TestBuildMintSendsRequestBody(t *testing.T) {
	var got mintRequest
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/mint", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(BuildResponse{
			Success:   true,
			TxCbor:    "unsigned_cbor",
			PolicyID:  "policy1",
			TokenName: "DemoNFT",
		})
	}), nil)
	defer server.Close()

	resp, err := client.BuildMint(context.Background(), "addr1xyz", "DemoNFT", "Hello")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "unsigned_cbor", resp.TxCbor)
	assert.Equal(t, mintRequest{WalletAddress: "addr1xyz", TokenName: "DemoNFT", Description: "Hello"}, got)
}

func TestBuildBurnOmitsEmptySeedRef(t *testing.T) {
	var raw map[string]any
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(BuildResponse{Success: true})
	}), nil)
	defer server.Close()

	_, err := client.BuildBurn(context.Background(), "addr1xyz", "policy1", "DemoNFT", "")
	require.NoError(t, err)
	_, present := raw["seed_ref"]
	assert.False(t, present, "empty seed_ref must be omitted")

	_, err = client.BuildBurn(context.Background(), "addr1xyz", "policy1", "DemoNFT", "txhash#0")
	require.NoError(t, err)
	assert.Equal(t, "txhash#0", raw["seed_ref"])
}

func TestBuildSurfacesBackendFailureMessage(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(BuildResponse{Success: false, Message: "insufficient funds"})
	}), nil)
	defer server.Close()

	resp, err := client.BuildMint(context.Background(), "addr1xyz", "DemoNFT", "Hello")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient funds", resp.Message)
}

func TestSubmit(t *testing.T) {
	var got submitRequest
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/submit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(SubmitResponse{Success: true, TxHash: "abc123"})
	}), nil)
	defer server.Close()

	resp, err := client.Submit(context.Background(), "unsigned", "witness")
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.TxHash)
	assert.Equal(t, submitRequest{TxCbor: "unsigned", WitnessSetCbor: "witness"}, got)
}

func TestDoReturnsBodyOnHTTPError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"bad token name"}`))
	}), nil)
	defer server.Close()

	data, err := client.Do(context.Background(), http.MethodGet, "/api/metadata/x", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, string(data), "bad token name")
}

func TestQueryAuth(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		json.NewEncoder(w).Encode(MetadataResponse{Success: true})
	}), &AuthConfig{Type: AuthTypeQuery, Key: "api_key", Value: "secret"})
	defer server.Close()

	_, err := client.Metadata(context.Background(), "DemoNFT")
	require.NoError(t, err)
}

func TestHeaderAuth(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		json.NewEncoder(w).Encode(MetadataResponse{Success: true})
	}), &AuthConfig{Type: AuthTypeHeader, Key: "X-Api-Key", Value: "secret"})
	defer server.Close()

	_, err := client.Metadata(context.Background(), "DemoNFT")
	require.NoError(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/convert-address", r.URL.Path)
		hexAddr := r.URL.Query().Get("hex_address")
		if hexAddr == "00cafe" {
			json.NewEncoder(w).Encode(ConvertAddressResponse{Success: true, Bech32Address: "addr1converted"})
			return
		}
		json.NewEncoder(w).Encode(ConvertAddressResponse{Success: false, Message: "cannot parse"})
	}), nil)
	defer server.Close()

	assert.Equal(t, "addr1converted", client.NormalizeAddress(context.Background(), "00cafe"))
	// conversion failure keeps the raw address
	assert.Equal(t, "00junk", client.NormalizeAddress(context.Background(), "00junk"))
}

func TestNormalizeAddressFallsBackWhenGatewayDown(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)
	server.Close() // closed server, every call errors

	assert.Equal(t, "00cafe", client.NormalizeAddress(context.Background(), "00cafe"))
}

func TestWalletInfo(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/wallet/addr1xyz", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"address": "addr1xyz",
			"balance_lovelace": 5000000,
			"utxo_count": 2,
			"assets": [
				{"policy_id": "policy1", "asset_name": "000de14058", "quantity": "1"}
			]
		}`))
	}), nil)
	defer server.Close()

	resp, err := client.WalletInfo(context.Background(), "addr1xyz")
	require.NoError(t, err)
	assert.Equal(t, uint64(5000000), resp.BalanceLovelace)
	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "000de14058", resp.Assets[0].AssetName)
	assert.Equal(t, "1", resp.Assets[0].Quantity.String())
}

func TestIsHealthy(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}), nil)
	defer server.Close()
	assert.True(t, client.IsHealthy(context.Background()))

	server.Close()
	assert.False(t, client.IsHealthy(context.Background()))
}
