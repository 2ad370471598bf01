package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID string `json:"id"`
}

func TestUnwrapList_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		keys []string
		want []item
	}{
		{name: "bare array", raw: `[{"id":"1"}]`, want: []item{{ID: "1"}}},
		{name: "data wrapper", raw: `{"success":true,"data":[{"id":"1"},{"id":"2"}]}`, want: []item{{ID: "1"}, {ID: "2"}}},
		{name: "typed key", raw: `{"tasks":[{"id":"t"}]}`, keys: []string{"tasks"}, want: []item{{ID: "t"}}},
		{name: "typed key preferred over data", raw: `{"tasks":[{"id":"t"}],"data":[]}`, keys: []string{"tasks"}, want: []item{{ID: "t"}}},
		{name: "nested data", raw: `{"data":{"submissions":[{"id":"s"}]}}`, keys: []string{"submissions"}, want: []item{{ID: "s"}}},
		{name: "null data", raw: `{"data":null}`, want: []item{}},
		{name: "unknown envelope", raw: `{"items":[{"id":"1"}]}`, want: []item{}},
		{name: "empty body", raw: ``, want: []item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnwrapList[item](json.RawMessage(tt.raw), tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapList_Malformed(t *testing.T) {
	_, err := UnwrapList[item](json.RawMessage(`{"data":[{"id":1}]}`))
	assert.Error(t, err)
}

func TestUnwrapObject(t *testing.T) {
	got, err := UnwrapObject[item](json.RawMessage(`{"task":{"id":"t1"}}`), "task")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)

	got, err = UnwrapObject[item](json.RawMessage(`{"success":true,"data":{"id":"d1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)

	got, err = UnwrapObject[item](json.RawMessage(`{"id":"bare"}`), "task")
	require.NoError(t, err)
	assert.Equal(t, "bare", got.ID)

	_, err = UnwrapObject[item](nil)
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestDecode(t *testing.T) {
	got, err := Decode[item](json.RawMessage(`{"id":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)

	_, err = Decode[item](nil)
	assert.ErrorIs(t, err, ErrEmptyBody)
}
