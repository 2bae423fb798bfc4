// internal/master/status_test.go
package master

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticExecutor struct {
	out Fields
}

func (s staticExecutor) Do(context.Context, Command, Fields) (Fields, error) {
	return s.out, nil
}

func TestReadStatus_FromJSONShapedFields(t *testing.T) {
	// Bridge responses decode numbers as float64.
	var out Fields
	require.NoError(t, json.Unmarshal([]byte(`{
		"hours": 9, "minutes": 5, "seconds": 30, "weekday": 3,
		"day": 7, "month": 2, "year": 24, "mode": 76,
		"f1": 3, "f2": 143, "f3": 103, "h": 4
	}`), &out))

	s, err := ReadStatus(context.Background(), staticExecutor{out: out})
	require.NoError(t, err)

	assert.Equal(t, "3.143.103", s.Version())
	assert.Equal(t, "09:05", s.TimeString())
	assert.Equal(t, "07/02/24", s.DateString())
	assert.Equal(t, 4, s.H)
}

func TestReadStatus_MissingField(t *testing.T) {
	_, err := ReadStatus(context.Background(), staticExecutor{out: Fields{"hours": 1}})
	assert.ErrorContains(t, err, "minutes")
}

func TestFields_BytesFromBase64(t *testing.T) {
	raw, err := json.Marshal(Fields{"data": []byte{1, 2, 255}})
	require.NoError(t, err)

	var f Fields
	require.NoError(t, json.Unmarshal(raw, &f))

	b, err := f.Bytes("data")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 255}, b)
}

func TestErrorList(t *testing.T) {
	exec := staticExecutor{out: Fields{"errors": []any{
		[]any{"O1", float64(2)},
		[]any{"I4", 0},
	}}}

	list, err := ErrorList(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, []ModuleErrors{{"O1", 2}, {"I4", 0}}, list)
}
