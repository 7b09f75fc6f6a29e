package exchange

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RequestSchema identifies the schema the message was composed against.
type RequestSchema struct {
	MessageType   string
	SchemaVersion string
	ReceiverCode  string
	ContentType   ContentType
	Environment   Environment
}

// ResponseSchema identifies a schema the sender is willing to receive a
// result in, mainly used for source-request messages.
type ResponseSchema struct {
	MessageType   string
	ReceiverCode  string
	SchemaVersion string
	ContentType   ContentType
}

// ExternalSource selects the document, provider and source for a
// source-request message.
type ExternalSource struct {
	Document string
	Provider string
	Source   string
}

// RecordHeader is the immutable structured metadata of a record.
type RecordHeader struct {
	RequestVersion  string
	Sender          string
	Receiver        string
	RequestSchema   RequestSchema
	ResponseSchemas []ResponseSchema
	ExternalSource  *ExternalSource

	// RequestTraceNr is deprecated on the platform; parse-only.
	RequestTraceNr string
}

// SendingApplication describes the software that presented the message
// to the platform.
type SendingApplication struct {
	Name      string
	Version   string
	Timestamp time.Time
}

// Miscellaneous is metadata about the exchange that is not part of the
// message itself.
type Miscellaneous struct {
	SenderName         string
	ReceiverName       string
	SendingApplication SendingApplication
}

// RecordStatus is the server-reported lifecycle state of a record.
type RecordStatus struct {
	Value             string
	ModifiedTimestamp time.Time
}

// Record is a single signed business message within a dossier. The
// platform owns the status state machine; the client only triggers
// transitions and enforces two local preconditions: Create requires an
// empty resource UUID, Send and Confirm require a populated one.
type Record struct {
	session *Session

	DossierUUID  string
	ResourceUUID string
	Sub          string
	CreationDate time.Time

	// Message is the raw, unsigned payload. Set it before SignMessage.
	Message string
	// PublicKeyID references the registered PublicKey the signature is
	// verified against server-side.
	PublicKeyID string

	Header        *RecordHeader
	Miscellaneous *Miscellaneous
	Status        *RecordStatus

	// Events is scoped to this record and recreated whenever the record's
	// identity changes.
	Events *EventList

	signature []byte
}

// NewRecord constructs a record that does not exist on the platform yet,
// destined for the given dossier.
func NewRecord(s *Session, dossierUUID string) *Record {
	return &Record{session: s, DossierUUID: dossierUUID}
}

// NewRecordFromUUID constructs a handle for an existing record.
func NewRecordFromUUID(s *Session, dossierUUID, resourceUUID string) *Record {
	return &Record{
		session:      s,
		DossierUUID:  dossierUUID,
		ResourceUUID: resourceUUID,
		Events:       NewRecordEventList(s, dossierUUID, resourceUUID),
	}
}

func newRecordFromJSON(s *Session, raw json.RawMessage) (*Record, error) {
	var res recordResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	r := &Record{session: s}
	r.apply(&res)
	return r, nil
}

// ── wire shapes ──────────────────────────────────────────────────────────

type requestSchemaWire struct {
	MessageType   string      `json:"messageType"`
	SchemaVersion string      `json:"schemaVersion"`
	ReceiverCode  string      `json:"receiverCode"`
	ContentType   ContentType `json:"contentType"`
	Environment   Environment `json:"environment,omitempty"`
}

type responseSchemaWire struct {
	MessageType   string      `json:"messageType"`
	ReceiverCode  string      `json:"receiverCode"`
	SchemaVersion string      `json:"schemaVersion"`
	ContentType   ContentType `json:"contentType"`
}

type externalSourceWire struct {
	Document string `json:"document"`
	Provider string `json:"provider"`
	Source   string `json:"source"`
}

type recordHeaderWire struct {
	RequestVersion string             `json:"requestVersion"`
	RequestTraceNr string             `json:"requestTraceNr,omitempty"`
	Sender         string             `json:"sender,omitempty"`
	Receiver       string             `json:"receiver"`
	RequestSchema  requestSchemaWire  `json:"requestSchema"`
	// The platform writes the plural form but has been seen echoing a
	// single responseSchema object; both are accepted on decode.
	ResponseSchemas []responseSchemaWire `json:"responseSchemas,omitempty"`
	ResponseSchema  *responseSchemaWire  `json:"responseSchema,omitempty"`
	ExternalSource  *externalSourceWire  `json:"externalSource,omitempty"`
}

type sendingApplicationWire struct {
	ApplicationName    string    `json:"applicationName"`
	ApplicationVersion string    `json:"applicationVersion"`
	SendingDateTime    time.Time `json:"sendingDateTime"`
}

type miscellaneousWire struct {
	SenderName         string                 `json:"senderName"`
	ReceiverName       string                 `json:"receiverName"`
	SendingApplication sendingApplicationWire `json:"sendingApplication"`
}

type statusWire struct {
	Value             string    `json:"value"`
	ModifiedTimestamp time.Time `json:"modifiedTimestamp"`
}

type messageWire struct {
	Data      string `json:"data"`
	Signature *struct {
		PublicKey struct {
			UUID string `json:"uuid"`
		} `json:"publicKey"`
		Value string `json:"value"`
	} `json:"signature,omitempty"`
}

type recordResource struct {
	ResourceUUID  string            `json:"resourceUuid"`
	DossierUUID   string            `json:"dossierUuid"`
	Sub           string            `json:"sub"`
	CreationDate  time.Time         `json:"creationDate"`
	Header        recordHeaderWire  `json:"header"`
	Message       *messageWire      `json:"message"`
	Miscellaneous miscellaneousWire `json:"miscellaneous"`
	Status        statusWire        `json:"status"`
}

// apply replaces every structured field from one decoded platform
// response and recreates the owned event list. Never called with a
// partially decoded resource.
func (r *Record) apply(res *recordResource) {
	schemas := make([]ResponseSchema, 0, len(res.Header.ResponseSchemas))
	for _, w := range res.Header.ResponseSchemas {
		schemas = append(schemas, ResponseSchema(w))
	}
	if len(schemas) == 0 && res.Header.ResponseSchema != nil {
		schemas = append(schemas, ResponseSchema(*res.Header.ResponseSchema))
	}

	header := &RecordHeader{
		RequestVersion:  res.Header.RequestVersion,
		RequestTraceNr:  res.Header.RequestTraceNr,
		Sender:          res.Header.Sender,
		Receiver:        res.Header.Receiver,
		RequestSchema:   RequestSchema(res.Header.RequestSchema),
		ResponseSchemas: schemas,
	}
	if res.Header.ExternalSource != nil {
		es := ExternalSource(*res.Header.ExternalSource)
		header.ExternalSource = &es
	}

	r.ResourceUUID = res.ResourceUUID
	r.DossierUUID = res.DossierUUID
	r.Sub = res.Sub
	r.CreationDate = res.CreationDate
	r.Header = header
	r.Miscellaneous = &Miscellaneous{
		SenderName:   res.Miscellaneous.SenderName,
		ReceiverName: res.Miscellaneous.ReceiverName,
		SendingApplication: SendingApplication{
			Name:      res.Miscellaneous.SendingApplication.ApplicationName,
			Version:   res.Miscellaneous.SendingApplication.ApplicationVersion,
			Timestamp: res.Miscellaneous.SendingApplication.SendingDateTime,
		},
	}
	r.Status = &RecordStatus{
		Value:             res.Status.Value,
		ModifiedTimestamp: res.Status.ModifiedTimestamp,
	}
	r.Events = NewRecordEventList(r.session, r.DossierUUID, r.ResourceUUID)
}

// SignMessage computes the detached RSA-SHA256 signature over the UTF-8
// bytes of Message with the session's private key. Call after setting
// Message and before Create. The signature is attached, not verified
// locally; trust is established server-side against the registered
// PublicKey.
func (r *Record) SignMessage() error {
	if r.Message == "" {
		return &ValidationError{Field: "message", Value: "", Reason: "set the message before signing"}
	}
	sum := sha256.Sum256([]byte(r.Message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, r.session.PrivateKey(), crypto.SHA256, sum[:])
	if err != nil {
		return fmt.Errorf("sign message: %w", err)
	}
	r.signature = sig
	return nil
}

// Signature returns the detached signature computed by SignMessage.
func (r *Record) Signature() []byte { return r.signature }

// VerifyMessage checks the attached signature against pub. Useful for
// verifying a counterparty's record against its registered public key.
func VerifyMessage(pub *rsa.PublicKey, message string, signature []byte) error {
	sum := sha256.Sum256([]byte(message))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], signature); err != nil {
		return fmt.Errorf("verify message: %w", err)
	}
	return nil
}

// Create creates the record inside its dossier. Valid only while the
// record has no resource UUID; the message must be signed first. A
// sending application left empty is filled from the session's
// WithApplication values, and a zero timestamp from the current time.
// On 201 the full returned representation replaces local state: the
// server response is authoritative, including normalized header enums.
func (r *Record) Create(ctx context.Context, node string) (*Response, error) {
	if r.ResourceUUID != "" {
		return nil, ErrAlreadyCreated
	}
	if r.Header == nil {
		return nil, &ValidationError{Field: "header", Value: "", Reason: "required"}
	}
	if r.Miscellaneous == nil {
		return nil, &ValidationError{Field: "miscellaneous", Value: "", Reason: "required"}
	}
	if len(r.signature) == 0 {
		return nil, &ValidationError{Field: "signature", Value: "", Reason: "sign the message before creating"}
	}

	if r.Miscellaneous.SendingApplication.Name == "" && r.session.appName != "" {
		r.Miscellaneous.SendingApplication.Name = r.session.appName
		r.Miscellaneous.SendingApplication.Version = r.session.appVersion
	}
	if r.Miscellaneous.SendingApplication.Timestamp.IsZero() {
		r.Miscellaneous.SendingApplication.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(r.createBody())
	if err != nil {
		return nil, fmt.Errorf("marshal record body: %w", err)
	}

	resp, err := r.session.Post(ctx, fmt.Sprintf(pathDossierRecords, r.DossierUUID), body, node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		r.session.logger.Error("creating record failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
		return resp, resp.protocolErr()
	}

	var res recordResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode created record: %w", err)
	}
	r.apply(&res)
	return resp, nil
}

// createBody builds the create envelope:
// {header:{...}, message:{data, signature:{publicKey:{uuid}, value}}, miscellaneous:{...}}.
func (r *Record) createBody() map[string]any {
	header := map[string]any{
		"receiver":       r.Header.Receiver,
		"requestVersion": r.Header.RequestVersion,
		"requestSchema": map[string]any{
			"messageType":   r.Header.RequestSchema.MessageType,
			"receiverCode":  r.Header.RequestSchema.ReceiverCode,
			"schemaVersion": r.Header.RequestSchema.SchemaVersion,
			"contentType":   r.Header.RequestSchema.ContentType,
			"environment":   r.Header.RequestSchema.Environment,
		},
	}
	if len(r.Header.ResponseSchemas) > 0 {
		schemas := make([]map[string]any, 0, len(r.Header.ResponseSchemas))
		for _, rs := range r.Header.ResponseSchemas {
			schemas = append(schemas, map[string]any{
				"messageType":   rs.MessageType,
				"receiverCode":  rs.ReceiverCode,
				"schemaVersion": rs.SchemaVersion,
				"contentType":   rs.ContentType,
			})
		}
		header["responseSchemas"] = schemas
	}
	if r.Header.ExternalSource != nil {
		header["externalSource"] = map[string]any{
			"document": r.Header.ExternalSource.Document,
			"provider": r.Header.ExternalSource.Provider,
			"source":   r.Header.ExternalSource.Source,
		}
	}

	return map[string]any{
		"header": header,
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString([]byte(r.Message)),
			"signature": map[string]any{
				"publicKey": map[string]any{"uuid": r.PublicKeyID},
				"value":     base64.StdEncoding.EncodeToString(r.signature),
			},
		},
		"miscellaneous": map[string]any{
			"senderName":   r.Miscellaneous.SenderName,
			"receiverName": r.Miscellaneous.ReceiverName,
			"sendingApplication": map[string]any{
				"applicationName":    r.Miscellaneous.SendingApplication.Name,
				"applicationVersion": r.Miscellaneous.SendingApplication.Version,
				"sendingDateTime":    r.Miscellaneous.SendingApplication.Timestamp.UTC().Format(time.RFC3339),
			},
		},
	}
}

// Send triggers delivery of the record to the receiver node. Requires a
// created record; local status is not touched, refresh it with Fetch.
func (r *Record) Send(ctx context.Context, node string) (*Response, error) {
	if r.ResourceUUID == "" {
		r.session.logger.Error("cannot send record that has not been created")
		return nil, ErrNotCreated
	}
	resp, err := r.session.Post(ctx, fmt.Sprintf(pathRecordSend, r.DossierUUID, r.ResourceUUID), nil, node)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp, resp.protocolErr()
	}
	return resp, nil
}

// Confirm marks the record as processed by the receiver. Requires a
// created record; local status is not touched.
func (r *Record) Confirm(ctx context.Context, node string) (*Response, error) {
	if r.ResourceUUID == "" {
		r.session.logger.Error("cannot confirm record that has not been created")
		return nil, ErrNotCreated
	}
	resp, err := r.session.Post(ctx, fmt.Sprintf(pathRecordConfirm, r.DossierUUID, r.ResourceUUID), nil, node)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp, resp.protocolErr()
	}
	return resp, nil
}

// Fetch refreshes every attribute of the record, decoding the base64
// message body back into Message.
func (r *Record) Fetch(ctx context.Context, node string) (*Response, error) {
	resp, err := r.session.Get(ctx, fmt.Sprintf(pathDossierRecord, r.DossierUUID, r.ResourceUUID), node)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, resp.protocolErr()
	}

	var res recordResource
	if err := resp.Decode(&res); err != nil {
		return resp, fmt.Errorf("decode record: %w", err)
	}

	var message string
	if res.Message != nil && res.Message.Data != "" {
		data, err := base64.StdEncoding.DecodeString(res.Message.Data)
		if err != nil {
			return resp, fmt.Errorf("decode message data: %w", err)
		}
		message = string(data)
	}

	r.apply(&res)
	r.Message = message
	return resp, nil
}
