package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Dossier is the transaction envelope holding the records exchanged
// between parties. A locally constructed dossier has no resource UUID;
// it becomes real once Create succeeds.
type Dossier struct {
	session *Session

	ResourceUUID        string
	OriginalNodes       []string
	Nodes               []string
	Sub                 string
	SortedOriginalNodes string
	CreationDate        time.Time

	// RequestTraceNr is deprecated on the platform and carried for
	// compatibility only.
	RequestTraceNr string

	// Records and Events are scoped to this dossier's UUID and recreated
	// whenever the identity changes.
	Records *RecordList
	Events  *EventList
}

// dossierResource is the wire shape of a dossier.
type dossierResource struct {
	OriginalNodes       []string  `json:"originalNodes"`
	Nodes               []string  `json:"nodes"`
	ResourceUUID        string    `json:"resourceUuid"`
	Sub                 string    `json:"sub"`
	RequestTraceNr      string    `json:"requestTraceNr"`
	SortedOriginalNodes string    `json:"sortedOriginalNodes"`
	CreationDate        time.Time `json:"creationDate"`
}

// NewDossier constructs a dossier that does not exist on the platform yet.
func NewDossier(s *Session) *Dossier {
	return &Dossier{session: s}
}

// NewDossierFromUUID constructs a handle for an existing dossier.
func NewDossierFromUUID(s *Session, resourceUUID string) *Dossier {
	d := &Dossier{session: s, ResourceUUID: resourceUUID}
	d.Records = NewDossierRecordList(s, resourceUUID)
	d.Events = NewEventList(s, resourceUUID)
	return d
}

func newDossierFromJSON(s *Session, raw json.RawMessage) (*Dossier, error) {
	var res dossierResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode dossier: %w", err)
	}
	d := &Dossier{session: s}
	d.apply(&res)
	return d, nil
}

// apply replaces all attributes from one decoded platform response and
// recreates the owned collections. All-or-nothing: it is only called
// with a fully decoded resource.
func (d *Dossier) apply(res *dossierResource) {
	d.OriginalNodes = res.OriginalNodes
	d.Nodes = res.Nodes
	d.ResourceUUID = res.ResourceUUID
	d.Sub = res.Sub
	d.RequestTraceNr = res.RequestTraceNr
	d.SortedOriginalNodes = res.SortedOriginalNodes
	d.CreationDate = res.CreationDate
	d.Records = NewDossierRecordList(d.session, d.ResourceUUID)
	d.Events = NewEventList(d.session, d.ResourceUUID)
}

// Create creates the dossier on the platform. Valid only while the
// dossier has no resource UUID; calling it again is an error and issues
// no network call. On 201 the server response populates resourceUuid and
// creationDate together.
func (d *Dossier) Create(ctx context.Context, node string) (*Response, error) {
	if d.ResourceUUID != "" {
		d.session.logger.Debug("dossier already created", zap.String("resourceUuid", d.ResourceUUID))
		return nil, ErrAlreadyCreated
	}

	resp, err := d.session.Post(ctx, pathDossiers, nil, node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		d.session.logger.Error("creating dossier failed", zap.Int("status", resp.StatusCode))
		return resp, resp.protocolErr()
	}

	var res dossierResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode created dossier: %w", err)
	}
	d.apply(&res)
	return resp, nil
}

// Fetch refreshes the dossier from the platform.
func (d *Dossier) Fetch(ctx context.Context, node string) (*Response, error) {
	if d.ResourceUUID == "" {
		return nil, ErrNotCreated
	}

	resp, err := d.session.Get(ctx, fmt.Sprintf(pathDossier, d.ResourceUUID), node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		d.session.logger.Error("fetching dossier failed", zap.Int("status", resp.StatusCode))
		return resp, resp.protocolErr()
	}

	var res dossierResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode dossier: %w", err)
	}
	d.apply(&res)
	return resp, nil
}

// AddNode grants another node access to the dossier.
func (d *Dossier) AddNode(ctx context.Context, node, onBehalfOf string) (*Response, error) {
	if d.ResourceUUID == "" {
		return nil, ErrNotCreated
	}
	if !ValidNode(node) {
		return nil, &ValidationError{Field: "node", Value: node, Reason: "node must be 6 digits"}
	}

	body, err := json.Marshal(map[string]string{"node": node})
	if err != nil {
		return nil, fmt.Errorf("marshal add-node body: %w", err)
	}

	resp, err := d.session.Post(ctx, fmt.Sprintf(pathDossierAddNode, d.ResourceUUID), body, onBehalfOf)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		d.session.logger.Error("adding node failed", zap.Int("status", resp.StatusCode))
		return resp, resp.protocolErr()
	}

	var res dossierResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode dossier: %w", err)
	}
	d.apply(&res)
	return resp, nil
}
