package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is an immutable audit entry emitted by the platform for a
// dossier or a record. Events are read-only: the client never creates
// them. Dossier-level events have no record UUID.
type Event struct {
	session *Session

	DossierUUID  string
	RecordUUID   string
	ResourceUUID string
	EventType    string
	Sub          string
	BusinessKey  string
	Timestamp    time.Time
}

type eventResource struct {
	ResourceUUID string    `json:"resourceUuid"`
	EventType    string    `json:"eventType"`
	Sub          string    `json:"sub"`
	BusinessKey  string    `json:"businessKey"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewEvent constructs a handle for an existing event.
func NewEvent(s *Session, dossierUUID, recordUUID, resourceUUID string) *Event {
	return &Event{
		session:      s,
		DossierUUID:  dossierUUID,
		RecordUUID:   recordUUID,
		ResourceUUID: resourceUUID,
	}
}

func newEventFromJSON(s *Session, dossierUUID, recordUUID string, raw json.RawMessage) (*Event, error) {
	var res eventResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	e := &Event{session: s, DossierUUID: dossierUUID, RecordUUID: recordUUID}
	e.apply(&res)
	return e, nil
}

func (e *Event) apply(res *eventResource) {
	if res.ResourceUUID != "" {
		e.ResourceUUID = res.ResourceUUID
	}
	e.EventType = res.EventType
	e.Sub = res.Sub
	e.BusinessKey = res.BusinessKey
	e.Timestamp = res.Timestamp
}

// Fetch refreshes the event. All three identifying UUIDs are required.
func (e *Event) Fetch(ctx context.Context, node string) (*Response, error) {
	if e.DossierUUID == "" || e.RecordUUID == "" || e.ResourceUUID == "" {
		return nil, &ValidationError{
			Field:  "event",
			Value:  e.ResourceUUID,
			Reason: "dossierUuid, recordUuid and resourceUuid are all required to fetch an event",
		}
	}

	resp, err := e.session.Get(ctx, fmt.Sprintf(pathEvent, e.DossierUUID, e.RecordUUID, e.ResourceUUID), node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, resp.protocolErr()
	}

	var res eventResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode event: %w", err)
	}
	e.apply(&res)
	return resp, nil
}
