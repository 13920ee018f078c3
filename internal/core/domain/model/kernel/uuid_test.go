package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownUUID = "8f14e45f-ceea-467f-9b6f-3f2a1c6d0e21"

func TestNewUUID(t *testing.T) {
	t.Run("should produce a valid non-zero identifier", func(t *testing.T) {
		id := kernel.NewUUID()

		assert.NoError(t, id.Validate())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id.String())
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id.String())
	})

	t.Run("should not repeat across calls", func(t *testing.T) {
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		assert.False(t, first.IsEqual(second))
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("accepted formats", func(t *testing.T) {
		inputs := []string{
			knownUUID,
			"{" + knownUUID + "}",
			"urn:uuid:" + knownUUID,
			"8f14e45fceea467f9b6f3f2a1c6d0e21",
		}

		for _, input := range inputs {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err, "input: %s", input)
			assert.Equal(t, knownUUID, id.String())
			assert.NoError(t, id.Validate())
		}
	})

	t.Run("rejected formats", func(t *testing.T) {
		inputs := []string{
			"",
			"order-1042",
			"8f14e45f-ceea-467f-9b6f",
			knownUUID + "-trailing",
			"zf14e45f-ceea-467f-9b6f-3f2a1c6d0e21",
		}

		for _, input := range inputs {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err, "input: %s", input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round-trip through the raw representation", func(t *testing.T) {
		source := kernel.NewUUID()
		raw := source.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, source.IsEqual(restored))
	})

	t.Run("should reject a truncated slice", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x8f, 0x14, 0xe4})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("should reject all-zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Bytes(t *testing.T) {
	t.Run("should expose the underlying uuid.UUID value", func(t *testing.T) {
		id, err := kernel.UUIDFromString(knownUUID)
		require.NoError(t, err)

		raw := id.Bytes()

		assert.IsType(t, uuid.UUID{}, raw)
		assert.Equal(t, knownUUID, raw.String())
	})

	t.Run("mutating the copy leaves the identifier intact", func(t *testing.T) {
		id := kernel.NewUUID()
		before := id.String()

		raw := id.Bytes()
		for i := range raw {
			raw[i] = 0xFF
		}

		assert.Equal(t, before, id.String())
		assert.NoError(t, id.Validate())
	})
}

func TestUUID_IsEqual(t *testing.T) {
	t.Run("same value parsed twice is equal", func(t *testing.T) {
		first, err := kernel.UUIDFromString(knownUUID)
		require.NoError(t, err)
		second, err := kernel.UUIDFromString(knownUUID)
		require.NoError(t, err)

		assert.True(t, first.IsEqual(second))
		assert.True(t, second.IsEqual(first))
	})

	t.Run("distinct values are not equal", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})

	t.Run("two zero values are equal to each other", func(t *testing.T) {
		var left, right kernel.UUID

		assert.True(t, left.IsEqual(right))
		assert.False(t, left.IsEqual(kernel.NewUUID()))
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("constructed identifier is valid", func(t *testing.T) {
		assert.NoError(t, kernel.NewUUID().Validate())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.UUID

		assert.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("parsed nil UUID fails validation", func(t *testing.T) {
		id, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)

		assert.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_AsAggregateIdentity(t *testing.T) {
	type orderRef struct {
		ID kernel.UUID
	}

	t.Run("populated field validates", func(t *testing.T) {
		ref := orderRef{ID: kernel.NewUUID()}

		assert.NoError(t, ref.ID.Validate())
	})

	t.Run("forgotten field is caught by Validate", func(t *testing.T) {
		var ref orderRef

		assert.Error(t, ref.ID.Validate())
	})
}
