package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEventV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := ClientEventV1{
			ClientID:    "testClientID",
			Kind:        "favorite",
			ProductID:   42,
			ProductName: "testProduct",
			Search:      "",
			OccurredAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
		}

		eventSchema, err := avro.Parse(ClientEventSchemaTextV1)
		require.NoError(t, err)

		data, err := avro.Marshal(eventSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal ClientEventV1
		err = avro.Unmarshal(eventSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("ZeroProduct", func(t *testing.T) {
		vMarshal := ClientEventV1{
			ClientID:   "testClientID",
			Kind:       "search",
			Search:     "labial",
			OccurredAt: time.Now().UnixMilli(),
		}

		eventSchema, err := avro.Parse(ClientEventSchemaTextV1)
		require.NoError(t, err)

		data, err := avro.Marshal(eventSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal ClientEventV1
		err = avro.Unmarshal(eventSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal, vUnmarshal)
	})
}
