package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// listEnvelope is the platform's list response shape:
// {"data": {"<resourceName>": [...]}, "total": <int>}.
type listEnvelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Total int                        `json:"total"`
}

// list is the one paginated retriever behind every resource collection.
// It repeatedly pulls pages until the server-reported total is consumed.
//
// Two quirks of the platform's pagination are preserved on purpose:
// an empty page terminates the loop even when the reported total is
// still nonzero (guards against transient empty pages looping forever),
// and a non-200 page aborts the retrieval while keeping the items pulled
// so far. The aborting response is exposed through the returned error
// and Err() rather than being silently swallowed.
type list[T any] struct {
	session *Session
	path    func() string
	dataKey string
	decode  func(raw json.RawMessage) (T, error)

	filters *Filters
	items   []T
	err     error
}

func newList[T any](s *Session, dataKey string, path func() string, decode func(json.RawMessage) (T, error)) list[T] {
	return list[T]{
		session: s,
		path:    path,
		dataKey: dataKey,
		decode:  decode,
		filters: NewFilters(),
	}
}

// Filters returns the filter set applied on the next Fetch.
func (l *list[T]) Filters() *Filters { return l.filters }

// Items returns the collection retrieved by the last Fetch, possibly
// partial when Err is non-nil.
func (l *list[T]) Items() []T { return l.items }

// Err returns the failure that aborted the last Fetch, or nil.
func (l *list[T]) Err() error { return l.err }

// Fetch retrieves all pages of the collection. On a non-200 page the
// retrieval stops and the partial collection is returned together with a
// *ProtocolError; transport errors abort in the same way.
func (l *list[T]) Fetch(ctx context.Context, node string) ([]T, error) {
	l.items = l.items[:0]
	l.err = nil

	total := 0
	offset := l.filters.Offset()
	limit := l.filters.Limit()

	for offset <= total {
		resp, err := l.session.Get(ctx, l.path()+"?"+l.filters.values(offset).Encode(), node)
		if err != nil {
			l.err = err
			return l.items, l.err
		}

		if resp.StatusCode != http.StatusOK {
			l.session.logger.Error("list retrieval aborted",
				zap.String("path", l.path()),
				zap.Int("status", resp.StatusCode),
			)
			l.err = resp.protocolErr()
			total = -1
			continue
		}

		var envelope listEnvelope
		if err := resp.Decode(&envelope); err != nil {
			l.err = fmt.Errorf("decode list response: %w", err)
			return l.items, l.err
		}

		var page []json.RawMessage
		if raw, ok := envelope.Data[l.dataKey]; ok {
			if err := json.Unmarshal(raw, &page); err != nil {
				l.err = fmt.Errorf("decode %s page: %w", l.dataKey, err)
				return l.items, l.err
			}
		}
		for _, raw := range page {
			item, err := l.decode(raw)
			if err != nil {
				l.err = fmt.Errorf("decode %s item: %w", l.dataKey, err)
				return l.items, l.err
			}
			l.items = append(l.items, item)
		}

		if len(page) == 0 {
			total = -1
		} else {
			total = envelope.Total
		}
		offset += limit
	}

	return l.items, l.err
}

// WaitForMessage blocks until the filtered retrieval yields at least one
// item. An empty first result sleeps waitTime and retries, up to
// maxRetries additional attempts. An empty collection with a nil error is
// the "nothing arrived within budget" signal. The wait is interruptible:
// ctx cancellation aborts the sleep promptly.
//
// Non-200 responses count as an empty result and are retried within the
// budget; transport errors abort the wait.
func (l *list[T]) WaitForMessage(ctx context.Context, maxRetries int, waitTime time.Duration, node string) ([]T, error) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		items, err := l.Fetch(ctx, node)
		if err != nil {
			if _, ok := IsProtocolError(err); !ok {
				return nil, err
			}
		}
		if len(items) > 0 {
			l.session.logger.Info("message found", zap.Int("count", len(items)))
			return items, nil
		}

		l.session.logger.Info("message not found",
			zap.Int("attempt", attempt+1),
			zap.Int("maxRetries", maxRetries),
		)
		if attempt < maxRetries {
			timer := time.NewTimer(waitTime)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	l.session.logger.Info("max retries reached")
	return []T{}, nil
}

// DossierList retrieves dossiers.
type DossierList struct {
	list[*Dossier]
}

// NewDossierList returns a list over GET /dossiers.
func NewDossierList(s *Session) *DossierList {
	dl := &DossierList{}
	dl.list = newList(s, "dossiers", func() string { return pathDossiers }, func(raw json.RawMessage) (*Dossier, error) {
		return newDossierFromJSON(s, raw)
	})
	return dl
}

// RecordList retrieves records, either platform-wide or scoped to one
// dossier.
type RecordList struct {
	list[*Record]
	dossierUUID string
}

// NewRecordList returns a list over the global GET /records.
func NewRecordList(s *Session) *RecordList {
	return newRecordList(s, "")
}

// NewDossierRecordList returns a list scoped to one dossier's records.
func NewDossierRecordList(s *Session, dossierUUID string) *RecordList {
	return newRecordList(s, dossierUUID)
}

func newRecordList(s *Session, dossierUUID string) *RecordList {
	rl := &RecordList{dossierUUID: dossierUUID}
	rl.list = newList(s, "records", func() string {
		if rl.dossierUUID == "" {
			return pathRecords
		}
		return fmt.Sprintf(pathDossierRecords, rl.dossierUUID)
	}, func(raw json.RawMessage) (*Record, error) {
		return newRecordFromJSON(s, raw)
	})
	return rl
}

// ConfirmAll fetches and confirms every record retrieved by the last
// Fetch. The first failure stops the run.
func (rl *RecordList) ConfirmAll(ctx context.Context, node string) error {
	for _, r := range rl.Items() {
		rl.session.logger.Info("confirming record", zap.String("resourceUuid", r.ResourceUUID))
		if _, err := r.Fetch(ctx, node); err != nil {
			return fmt.Errorf("fetch record %s: %w", r.ResourceUUID, err)
		}
		if _, err := r.Confirm(ctx, node); err != nil {
			return fmt.Errorf("confirm record %s: %w", r.ResourceUUID, err)
		}
	}
	return nil
}

// EventList retrieves events for a dossier, or for a single record when
// recordUUID is set.
type EventList struct {
	list[*Event]
	dossierUUID string
	recordUUID  string
}

// NewEventList returns a list over a dossier's events.
func NewEventList(s *Session, dossierUUID string) *EventList {
	return newEventList(s, dossierUUID, "")
}

// NewRecordEventList returns a list over one record's events.
func NewRecordEventList(s *Session, dossierUUID, recordUUID string) *EventList {
	return newEventList(s, dossierUUID, recordUUID)
}

func newEventList(s *Session, dossierUUID, recordUUID string) *EventList {
	el := &EventList{dossierUUID: dossierUUID, recordUUID: recordUUID}
	el.list = newList(s, "events", func() string {
		if el.recordUUID == "" {
			return fmt.Sprintf(pathDossierEvents, el.dossierUUID)
		}
		return fmt.Sprintf(pathRecordEvents, el.dossierUUID, el.recordUUID)
	}, func(raw json.RawMessage) (*Event, error) {
		return newEventFromJSON(s, el.dossierUUID, el.recordUUID, raw)
	})
	return el
}

// HookList retrieves webhook registrations.
type HookList struct {
	list[*Hook]
}

// NewHookList returns a list over GET /hooks.
func NewHookList(s *Session) *HookList {
	hl := &HookList{}
	hl.list = newList(s, "hooks", func() string { return pathHooks }, func(raw json.RawMessage) (*Hook, error) {
		return newHookFromJSON(s, raw)
	})
	return hl
}

// PublicKeyList retrieves registered public keys.
type PublicKeyList struct {
	list[*PublicKey]
}

// NewPublicKeyList returns a list over GET /publickeys.
func NewPublicKeyList(s *Session) *PublicKeyList {
	pl := &PublicKeyList{}
	pl.list = newList(s, "publickeys", func() string { return pathPublicKeys }, func(raw json.RawMessage) (*PublicKey, error) {
		return newPublicKeyFromJSON(s, raw)
	})
	return pl
}
