package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fystack/cip68-minter/internal/gateway"
)

// BridgeProvider adapts a CIP-30 wallet bridge (an HTTP sidecar that
// fronts a real wallet) to the Provider/Capability contract. Headless
// environments run one bridge per wallet; the browser case injects
// capabilities directly instead.
type BridgeProvider struct {
	id     string
	name   string
	client *gateway.Client
	// signClient has no transport timeout: signing suspends until the
	// user approves or rejects in the wallet, however long that takes.
	// Cancellation comes from the caller's context only.
	signClient *gateway.Client
}

func NewBridgeProvider(id, name, baseURL string, timeout time.Duration) *BridgeProvider {
	if name == "" {
		name = id
	}
	return &BridgeProvider{
		id:         id,
		name:       name,
		client:     gateway.NewClient(baseURL, nil, timeout, nil),
		signClient: gateway.NewClient(baseURL, nil, 0, nil),
	}
}

func (p *BridgeProvider) ID() string   { return p.id }
func (p *BridgeProvider) Name() string { return p.name }

// Available probes the bridge; an unreachable bridge is simply not
// offered, never an error.
func (p *BridgeProvider) Available(ctx context.Context) bool {
	return p.client.IsHealthy(ctx)
}

type enableResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Enable asks the bridge to enable the wallet. The bridge blocks until
// the user approves, mirroring window.cardano.<wallet>.enable().
func (p *BridgeProvider) Enable(ctx context.Context) (Capability, error) {
	data, err := p.client.Do(ctx, http.MethodPost, "/enable", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp enableResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal enable response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("enable declined: %s", resp.Message)
	}
	return &bridgeCapability{client: p.client, signClient: p.signClient}, nil
}

type bridgeCapability struct {
	client     *gateway.Client
	signClient *gateway.Client
}

type addressesResponse struct {
	Addresses []string `json:"addresses"`
}

type signRequest struct {
	TxCbor      string `json:"tx_cbor"`
	PartialSign bool   `json:"partial_sign"`
}

type signResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	WitnessSetCbor string `json:"witness_set_cbor"`
}

func (c *bridgeCapability) addresses(ctx context.Context, endpoint string) ([]string, error) {
	data, err := c.client.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var resp addressesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal addresses response: %w", err)
	}
	return resp.Addresses, nil
}

func (c *bridgeCapability) GetUsedAddresses(ctx context.Context) ([]string, error) {
	return c.addresses(ctx, "/addresses/used")
}

func (c *bridgeCapability) GetUnusedAddresses(ctx context.Context) ([]string, error) {
	return c.addresses(ctx, "/addresses/unused")
}

func (c *bridgeCapability) GetChangeAddress(ctx context.Context) (string, error) {
	addrs, err := c.addresses(ctx, "/addresses/change")
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", nil
	}
	return addrs[0], nil
}

func (c *bridgeCapability) SignTx(ctx context.Context, txCbor string, partialSign bool) (string, error) {
	data, err := c.signClient.Do(ctx, http.MethodPost, "/sign", signRequest{
		TxCbor:      txCbor,
		PartialSign: partialSign,
	}, nil)
	if err != nil {
		return "", err
	}

	var resp signResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal sign response: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("sign declined: %s", resp.Message)
	}
	return resp.WitnessSetCbor, nil
}
