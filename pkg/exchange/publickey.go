package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PublicKey is a signing key registered with the platform. Create-once:
// there is no update or delete, only fetch.
type PublicKey struct {
	session *Session

	ResourceUUID string
	Node         string
	Algorithm    string
	// KeyMaterial is the base64-encoded public key.
	KeyMaterial string
	Sub         string
}

type publicKeyResource struct {
	ResourceUUID string `json:"resourceUuid"`
	Node         string `json:"node"`
	Algorithm    string `json:"algorithm"`
	PublicKey    string `json:"publicKey"`
	Sub          string `json:"sub"`
}

// NewPublicKey constructs a key that is not registered yet.
func NewPublicKey(s *Session) *PublicKey {
	return &PublicKey{session: s}
}

// NewPublicKeyFromUUID constructs a handle for a registered key.
func NewPublicKeyFromUUID(s *Session, resourceUUID string) *PublicKey {
	return &PublicKey{session: s, ResourceUUID: resourceUUID}
}

func newPublicKeyFromJSON(s *Session, raw json.RawMessage) (*PublicKey, error) {
	var res publicKeyResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	pk := &PublicKey{session: s}
	pk.apply(&res)
	return pk, nil
}

func (pk *PublicKey) apply(res *publicKeyResource) {
	pk.ResourceUUID = res.ResourceUUID
	pk.Node = res.Node
	pk.Algorithm = res.Algorithm
	pk.KeyMaterial = res.PublicKey
	pk.Sub = res.Sub
}

// Create registers the key. Requires an empty resource UUID.
func (pk *PublicKey) Create(ctx context.Context, node string) (*Response, error) {
	if pk.ResourceUUID != "" {
		return nil, ErrAlreadyCreated
	}

	body, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"algorithm": pk.Algorithm,
			"publicKey": pk.KeyMaterial,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal public key body: %w", err)
	}

	resp, err := pk.session.Post(ctx, pathPublicKeys, body, node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return resp, resp.protocolErr()
	}

	var res publicKeyResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode created public key: %w", err)
	}
	pk.apply(&res)
	return resp, nil
}

// Fetch refreshes the registered key.
func (pk *PublicKey) Fetch(ctx context.Context, node string) (*Response, error) {
	if pk.ResourceUUID == "" {
		return nil, ErrNotCreated
	}

	resp, err := pk.session.Get(ctx, fmt.Sprintf(pathPublicKey, pk.ResourceUUID), node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, resp.protocolErr()
	}

	var res publicKeyResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode public key: %w", err)
	}
	pk.apply(&res)
	return resp, nil
}

// PublicKeyAlgorithms lists the signing algorithms the platform accepts.
func PublicKeyAlgorithms(ctx context.Context, s *Session, node string) ([]string, error) {
	resp, err := s.Get(ctx, pathPublicKeyAlgorithms, node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.protocolErr()
	}

	var payload struct {
		Algorithms []string `json:"algorithms"`
		Data       struct {
			Algorithms []string `json:"algorithms"`
		} `json:"data"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode algorithms: %w", err)
	}
	if len(payload.Algorithms) > 0 {
		return payload.Algorithms, nil
	}
	return payload.Data.Algorithms, nil
}
