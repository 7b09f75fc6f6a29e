package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersDefaults(t *testing.T) {
	f := NewFilters()
	assert.Equal(t, 100, f.Limit())
	assert.Equal(t, 0, f.Offset())
}

func TestFiltersSetLimit(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetLimit(250))
	assert.Equal(t, 250, f.Limit())

	var verr *ValidationError
	require.ErrorAs(t, f.SetLimit(0), &verr)
	require.ErrorAs(t, f.SetLimit(1001), &verr)
	assert.Equal(t, 250, f.Limit(), "invalid limit must leave the filter unchanged")
}

func TestFiltersSetOffset(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetOffset(40))
	assert.Equal(t, 40, f.Offset())

	var verr *ValidationError
	require.ErrorAs(t, f.SetOffset(-1), &verr)
	assert.Equal(t, 40, f.Offset())
}

func TestFiltersSetStatus(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetStatus(StatusSent))
	assert.Equal(t, StatusSent, f.values(0).Get("status"))

	var verr *ValidationError
	require.ErrorAs(t, f.SetStatus("shipped"), &verr)
	assert.Equal(t, StatusSent, f.values(0).Get("status"))

	require.NoError(t, f.SetStatus(""))
	assert.Empty(t, f.values(0).Get("status"))
}

func TestFiltersSetNode(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetNode("654321"))

	var verr *ValidationError
	require.ErrorAs(t, f.SetNode("65432"), &verr)
	assert.Equal(t, "654321", f.values(0).Get("node"))
}

func TestFiltersSetResourceUUID(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetResourceUUID("11111111-2222-3333-4444-555555555555"))

	var verr *ValidationError
	require.ErrorAs(t, f.SetResourceUUID("not-a-uuid"), &verr)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", f.values(0).Get("resourceUuid"))
}

func TestFiltersSetMessageType(t *testing.T) {
	f := NewFilters()

	var verr *ValidationError
	require.ErrorAs(t, f.SetMessageType("NoSuchMessage"), &verr)
	assert.Empty(t, f.values(0).Get("header.requestSchema.messageType"))

	require.NoError(t, f.SetMessageType(MessageTypes[0]))
	assert.Equal(t, MessageTypes[0], f.values(0).Get("header.requestSchema.messageType"))
}

func TestFiltersDateOperators(t *testing.T) {
	f := NewFilters()

	require.NoError(t, f.SetCreationDate("$gte", "2026-01-01"))
	require.NoError(t, f.SetTimestamp("", "2026-02-01T00:00:00Z"))

	v := f.values(0)
	assert.Equal(t, "2026-01-01", v.Get("creationDate[$gte]"))
	assert.Equal(t, "2026-02-01T00:00:00Z", v.Get("timestamp"))

	var verr *ValidationError
	require.ErrorAs(t, f.SetCreationDate("$between", "2026-01-01"), &verr)
	require.ErrorAs(t, f.SetTimestamp("before", "2026-01-01"), &verr)
}

func TestFiltersValuesWindow(t *testing.T) {
	f := NewFilters()
	require.NoError(t, f.SetLimit(25))

	v := f.values(50)
	assert.Equal(t, "25", v.Get("limit"))
	assert.Equal(t, "50", v.Get("offset"))
	assert.Len(t, v, 2, "unset filters must not appear in the query")
}
