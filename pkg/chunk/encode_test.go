package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	sc := &Schema{Fields: []Field{
		{Name: "id", Type: TypeUint32},
		{Name: "name", Type: TypeString},
	}}
	rec := Record{Fields: []FieldValue{
		{Name: "id", Value: uint32(7)},
		{Name: "name", Value: "x"},
	}}
	payload := &TablePayload{Schema: sc, Rows: []Row{{Index: 0, Record: rec}}}

	body, err := AppendChunk(nil, "PLYR", Table, payload)
	require.NoError(t, err)
	ch, err := NewFramer(body).Next()
	require.NoError(t, err)
	require.Len(t, ch.Table.Rows, 1)
	assert.Equal(t, rec, ch.Table.Rows[0].Record)
}

func TestRecordRoundTripAllScalars(t *testing.T) {
	sc := &Schema{Fields: []Field{
		{Name: "a", Type: TypeInt8},
		{Name: "b", Type: TypeUint8},
		{Name: "c", Type: TypeInt16},
		{Name: "d", Type: TypeUint16},
		{Name: "e", Type: TypeInt32},
		{Name: "f", Type: TypeUint32},
		{Name: "g", Type: TypeInt64},
		{Name: "h", Type: TypeUint64},
		{Name: "i", Type: TypeStringID},
		{Name: "j", Type: TypeString},
	}}
	rec := Record{Fields: []FieldValue{
		{Name: "a", Value: int8(-5)},
		{Name: "b", Value: uint8(200)},
		{Name: "c", Value: int16(-3000)},
		{Name: "d", Value: uint16(60000)},
		{Name: "e", Value: int32(-70000)},
		{Name: "f", Value: uint32(4000000000)},
		{Name: "g", Value: int64(-1 << 40)},
		{Name: "h", Value: uint64(1) << 60},
		{Name: "i", Value: StringID(0xCAFE)},
		{Name: "j", Value: "zażółć"},
	}}
	payload := &TablePayload{Schema: sc, Rows: []Row{{Record: rec}}}
	body, err := AppendChunk(nil, "SCLR", Table, payload)
	require.NoError(t, err)
	ch, err := NewFramer(body).Next()
	require.NoError(t, err)
	assert.Equal(t, rec, ch.Table.Rows[0].Record)
}

func TestRecordRoundTripListsAndStructs(t *testing.T) {
	sc := &Schema{Fields: []Field{
		{Name: "cargo", Type: TypeUint16, IsList: true},
		{Name: "pos", Type: TypeStruct, Sub: &Schema{Fields: []Field{
			{Name: "x", Type: TypeInt32},
			{Name: "y", Type: TypeInt32},
		}}},
		{Name: "stops", Type: TypeStruct, IsList: true, Sub: &Schema{Fields: []Field{
			{Name: "station", Type: TypeUint16},
		}}},
	}}
	rec := Record{Fields: []FieldValue{
		{Name: "cargo", Value: []any{uint16(1), uint16(2), uint16(3)}},
		{Name: "pos", Value: Record{Fields: []FieldValue{
			{Name: "x", Value: int32(-10)},
			{Name: "y", Value: int32(42)},
		}}},
		{Name: "stops", Value: []any{
			Record{Fields: []FieldValue{{Name: "station", Value: uint16(7)}}},
			Record{Fields: []FieldValue{{Name: "station", Value: uint16(9)}}},
		}},
	}}
	payload := &TablePayload{Schema: sc, Rows: []Row{{Record: rec}}}
	body, err := AppendChunk(nil, "VEHS", Table, payload)
	require.NoError(t, err)
	ch, err := NewFramer(body).Next()
	require.NoError(t, err)
	assert.Equal(t, rec, ch.Table.Rows[0].Record)
}

func TestSparseRoundTripKeepsIndexes(t *testing.T) {
	sc := &Schema{Fields: []Field{{Name: "v", Type: TypeUint8}}}
	payload := &TablePayload{Schema: sc, Rows: []Row{
		{Index: 3, Record: Record{Fields: []FieldValue{{Name: "v", Value: uint8(1)}}}},
		{Index: 700, Record: Record{Fields: []FieldValue{{Name: "v", Value: uint8(2)}}}},
	}}
	body, err := AppendChunk(nil, "ORDR", SparseTable, payload)
	require.NoError(t, err)
	ch, err := NewFramer(body).Next()
	require.NoError(t, err)
	require.Len(t, ch.Table.Rows, 2)
	assert.Equal(t, uint32(3), ch.Table.Rows[0].Index)
	assert.Equal(t, uint32(700), ch.Table.Rows[1].Index)
}

func TestAppendRecordRejectsMismatch(t *testing.T) {
	sc := &Schema{Fields: []Field{{Name: "id", Type: TypeUint32}}}

	_, err := AppendRecord(nil, sc, Record{})
	require.ErrorIs(t, err, ErrBadValue)

	_, err = AppendRecord(nil, sc, Record{Fields: []FieldValue{{Name: "id", Value: "seven"}}})
	require.ErrorIs(t, err, ErrBadValue)

	_, err = AppendRecord(nil, sc, Record{Fields: []FieldValue{{Name: "nope", Value: uint32(1)}}})
	require.ErrorIs(t, err, ErrBadValue)
}

func TestAppendChunkValidation(t *testing.T) {
	payload := &TablePayload{Schema: &Schema{}}
	_, err := AppendChunk(nil, "TOOLONG", Table, payload)
	require.ErrorIs(t, err, ErrBadValue)
	_, err = AppendChunk(nil, "RIFF", Riff, payload)
	require.ErrorIs(t, err, ErrUnsupportedKind)
}
