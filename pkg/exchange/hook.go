package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Hook is a webhook registration: the platform pushes notifications for
// matching message types and nodes to the registered URL. The hook
// object itself is just the registration lifecycle; receiving the
// deliveries is the caller's concern.
//
// Deleting a hook clears its resource UUID, so the same local object can
// be created again.
type Hook struct {
	session *Session

	ResourceUUID         string
	URL                  string
	MessageTypes         []string
	Nodes                []string
	AuthenticationMethod string
	CertificateUUID      string
	Sub                  string
	CreationDate         time.Time
}

type hookResource struct {
	ResourceUUID         string    `json:"resourceUuid"`
	URL                  string    `json:"url"`
	MessageTypes         []string  `json:"messageTypes"`
	Nodes                []string  `json:"nodes"`
	AuthenticationMethod string    `json:"authenticationMethod"`
	CertificateUUID      string    `json:"certificateUuid"`
	Sub                  string    `json:"sub"`
	CreationDate         time.Time `json:"creationDate"`
}

// NewHook constructs a hook that is not registered yet.
func NewHook(s *Session) *Hook {
	return &Hook{session: s}
}

// NewHookFromUUID constructs a handle for an existing registration.
func NewHookFromUUID(s *Session, resourceUUID string) *Hook {
	return &Hook{session: s, ResourceUUID: resourceUUID}
}

func newHookFromJSON(s *Session, raw json.RawMessage) (*Hook, error) {
	var res hookResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode hook: %w", err)
	}
	h := &Hook{session: s}
	h.apply(&res)
	return h, nil
}

func (h *Hook) apply(res *hookResource) {
	h.ResourceUUID = res.ResourceUUID
	h.URL = res.URL
	h.MessageTypes = res.MessageTypes
	h.Nodes = res.Nodes
	h.AuthenticationMethod = res.AuthenticationMethod
	h.CertificateUUID = res.CertificateUUID
	h.Sub = res.Sub
	h.CreationDate = res.CreationDate
}

func (h *Hook) body() ([]byte, error) {
	messageTypes := h.MessageTypes
	if messageTypes == nil {
		messageTypes = []string{}
	}
	payload := map[string]any{
		"url":          h.URL,
		"messageTypes": messageTypes,
		"nodes":        h.Nodes,
	}
	if h.AuthenticationMethod != "" {
		payload["authenticationMethod"] = h.AuthenticationMethod
	}
	if h.CertificateUUID != "" {
		payload["certificateUuid"] = h.CertificateUUID
	}
	return json.Marshal(payload)
}

// Create registers the hook. Requires an empty resource UUID, at least
// one node, and a valid 6-digit on-behalf-of node; all validated before
// any network call.
func (h *Hook) Create(ctx context.Context, onBehalfOf string) (*Response, error) {
	if h.ResourceUUID != "" {
		h.session.logger.Error("cannot create hook with a resource uuid, use Update instead")
		return nil, ErrAlreadyCreated
	}
	if err := requireOnBehalfOf(onBehalfOf); err != nil {
		return nil, err
	}
	if len(h.Nodes) == 0 {
		return nil, &ValidationError{Field: "nodes", Value: "", Reason: "at least one node is required"}
	}

	body, err := h.body()
	if err != nil {
		return nil, fmt.Errorf("marshal hook body: %w", err)
	}

	resp, err := h.session.Post(ctx, pathHooks, body, onBehalfOf)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return resp, resp.protocolErr()
	}

	var res hookResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode created hook: %w", err)
	}
	h.apply(&res)
	return resp, nil
}

// Update replaces the registration. Requires a created hook.
func (h *Hook) Update(ctx context.Context, onBehalfOf string) (*Response, error) {
	if h.ResourceUUID == "" {
		h.session.logger.Error("cannot update hook without a resource uuid, use Create instead")
		return nil, ErrNotCreated
	}
	if err := requireOnBehalfOf(onBehalfOf); err != nil {
		return nil, err
	}

	body, err := h.body()
	if err != nil {
		return nil, fmt.Errorf("marshal hook body: %w", err)
	}

	resp, err := h.session.Put(ctx, fmt.Sprintf(pathHook, h.ResourceUUID), body, onBehalfOf)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, resp.protocolErr()
	}

	var res hookResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode updated hook: %w", err)
	}
	h.apply(&res)
	return resp, nil
}

// Fetch refreshes the registration.
func (h *Hook) Fetch(ctx context.Context, onBehalfOf string) (*Response, error) {
	if h.ResourceUUID == "" {
		return nil, ErrNotCreated
	}
	if err := requireOnBehalfOf(onBehalfOf); err != nil {
		return nil, err
	}

	resp, err := h.session.Get(ctx, fmt.Sprintf(pathHook, h.ResourceUUID), onBehalfOf)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, resp.protocolErr()
	}

	var res hookResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode hook: %w", err)
	}
	h.apply(&res)
	return resp, nil
}

// Delete removes the registration. On 204 the resource UUID is cleared
// so the object can be registered again.
func (h *Hook) Delete(ctx context.Context, onBehalfOf string) (*Response, error) {
	if h.ResourceUUID == "" {
		return nil, ErrNotCreated
	}
	if err := requireOnBehalfOf(onBehalfOf); err != nil {
		return nil, err
	}

	h.session.logger.Info("deleting hook", zap.String("resourceUuid", h.ResourceUUID))
	resp, err := h.session.Delete(ctx, fmt.Sprintf(pathHook, h.ResourceUUID), onBehalfOf)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusNoContent {
		return resp, resp.protocolErr()
	}
	h.ResourceUUID = ""
	return resp, nil
}
