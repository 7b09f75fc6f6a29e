package exchange

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Filters holds the pagination window and the optional query filters of
// a paginated retrieval. Every setter validates before any network call;
// an invalid value yields a *ValidationError and leaves the filter
// unchanged.
type Filters struct {
	limit  int
	offset int

	status         string
	sort           string
	node           string
	resourceUUID   string
	sub            string
	messageType    string
	creationDate   string
	creationDateOp string
	timestamp      string
	timestampOp    string
}

// NewFilters returns filters with the default window: limit 100, offset 0.
func NewFilters() *Filters {
	return &Filters{limit: 100}
}

// SetLimit sets the page size, 1 to 1000.
func (f *Filters) SetLimit(limit int) error {
	if limit <= 0 || limit > 1000 {
		return &ValidationError{Field: "limit", Value: strconv.Itoa(limit), Reason: "must be between 1 and 1000"}
	}
	f.limit = limit
	return nil
}

// SetOffset sets the start offset, zero or greater.
func (f *Filters) SetOffset(offset int) error {
	if offset < 0 {
		return &ValidationError{Field: "offset", Value: strconv.Itoa(offset), Reason: "must be zero or greater"}
	}
	f.offset = offset
	return nil
}

// SetStatus filters on a record status value. Empty clears the filter.
func (f *Filters) SetStatus(status string) error {
	if status != "" && !contains(recordStatuses, status) {
		return &ValidationError{Field: "status", Value: status, Reason: fmt.Sprintf("must be one of %v", recordStatuses)}
	}
	f.status = status
	return nil
}

// SetSort sets the sort field, optionally "-"-prefixed for descending.
// Empty clears the sortation.
func (f *Filters) SetSort(sort string) error {
	if sort != "" && !contains(sortFields, sort) {
		return &ValidationError{Field: "sort", Value: sort, Reason: fmt.Sprintf("must be one of %v", sortFields)}
	}
	f.sort = sort
	return nil
}

// SetNode filters on the node that created the resources.
func (f *Filters) SetNode(node string) error {
	if node != "" && !ValidNode(node) {
		return &ValidationError{Field: "node", Value: node, Reason: "node must be 6 digits"}
	}
	f.node = node
	return nil
}

// SetResourceUUID filters on a single resource UUID.
func (f *Filters) SetResourceUUID(id string) error {
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return &ValidationError{Field: "resourceUuid", Value: id, Reason: "not a valid UUID"}
		}
	}
	f.resourceUUID = id
	return nil
}

// SetSub filters on the sub that created the resources.
func (f *Filters) SetSub(sub string) {
	f.sub = sub
}

// SetMessageType filters records on the request schema message type.
func (f *Filters) SetMessageType(messageType string) error {
	if messageType != "" && !contains(MessageTypes, messageType) {
		return &ValidationError{Field: "messageType", Value: messageType, Reason: "unknown message type"}
	}
	f.messageType = messageType
	return nil
}

// SetCreationDate filters on the creation date. operator is one of
// $lt, $lte, $ne, $gte, $gt, or empty for exact match.
func (f *Filters) SetCreationDate(operator, date string) error {
	if operator != "" && !contains(dateOperators, operator) {
		return &ValidationError{Field: "creationDate operator", Value: operator, Reason: fmt.Sprintf("must be one of %v", dateOperators)}
	}
	f.creationDateOp = operator
	f.creationDate = date
	return nil
}

// SetTimestamp filters events on their timestamp. Same operators as
// SetCreationDate.
func (f *Filters) SetTimestamp(operator, ts string) error {
	if operator != "" && !contains(dateOperators, operator) {
		return &ValidationError{Field: "timestamp operator", Value: operator, Reason: fmt.Sprintf("must be one of %v", dateOperators)}
	}
	f.timestampOp = operator
	f.timestamp = ts
	return nil
}

// Limit returns the configured page size.
func (f *Filters) Limit() int { return f.limit }

// Offset returns the configured start offset.
func (f *Filters) Offset() int { return f.offset }

// values maps the set filters to query parameters for one page, omitting
// anything left unset.
func (f *Filters) values(offset int) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(f.limit))
	v.Set("offset", strconv.Itoa(offset))
	if f.status != "" {
		v.Set("status", f.status)
	}
	if f.sort != "" {
		v.Set("sort", f.sort)
	}
	if f.node != "" {
		v.Set("node", f.node)
	}
	if f.resourceUUID != "" {
		v.Set("resourceUuid", f.resourceUUID)
	}
	if f.sub != "" {
		v.Set("sub", f.sub)
	}
	if f.messageType != "" {
		v.Set("header.requestSchema.messageType", f.messageType)
	}
	if f.creationDate != "" {
		key := "creationDate"
		if f.creationDateOp != "" {
			key += "[" + f.creationDateOp + "]"
		}
		v.Set(key, f.creationDate)
	}
	if f.timestamp != "" {
		key := "timestamp"
		if f.timestampOp != "" {
			key += "[" + f.timestampOp + "]"
		}
		v.Set(key, f.timestamp)
	}
	return v
}
