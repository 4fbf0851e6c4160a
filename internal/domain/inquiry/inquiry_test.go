package inquiry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInquiry(t *testing.T) {
	t.Run("creates inquiry with status new", func(t *testing.T) {
		inq, err := NewInquiry("Jane Doe", "jane@example.com", "555-0101", "I'd like a quote for a patio.", "203.0.113.7")

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", inq.Name)
		assert.Equal(t, "jane@example.com", inq.Email)
		assert.Equal(t, "555-0101", inq.Phone)
		assert.Equal(t, StatusNew, inq.Status)
		assert.True(t, inq.IsNew())
		assert.False(t, inq.SubmittedAt.IsZero())
		assert.Equal(t, "203.0.113.7", inq.SourceIP)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		inq, err := NewInquiry("Jane Doe", "Jane@Example.COM", "", "I'd like a quote for a patio.", "")

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", inq.Email)
	})

	t.Run("phone is optional", func(t *testing.T) {
		_, err := NewInquiry("Jane Doe", "jane@example.com", "", "I'd like a quote for a patio.", "")

		assert.NoError(t, err)
	})

	t.Run("fails with single character name", func(t *testing.T) {
		_, err := NewInquiry("J", "jane@example.com", "", "I'd like a quote for a patio.", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 2 characters")
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewInquiry("Jane Doe", "not-an-email", "", "I'd like a quote for a patio.", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})

	t.Run("fails with letters in phone", func(t *testing.T) {
		_, err := NewInquiry("Jane Doe", "jane@example.com", "call me", "I'd like a quote for a patio.", "")

		assert.Error(t, err)
	})

	t.Run("fails with short message", func(t *testing.T) {
		_, err := NewInquiry("Jane Doe", "jane@example.com", "", "hi", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 10 characters")
	})

	t.Run("fails with oversized message", func(t *testing.T) {
		_, err := NewInquiry("Jane Doe", "jane@example.com", "", strings.Repeat("a", 5001), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 5000")
	})
}

func TestInquiry_StatusTransitions(t *testing.T) {
	newInquiry := func(t *testing.T) *Inquiry {
		inq, err := NewInquiry("Jane Doe", "jane@example.com", "", "I'd like a quote for a patio.", "")
		require.NoError(t, err)
		return inq
	}

	t.Run("mark read promotes new to read", func(t *testing.T) {
		inq := newInquiry(t)

		inq.MarkRead()

		assert.Equal(t, StatusRead, inq.Status)
	})

	t.Run("mark read does not demote responded", func(t *testing.T) {
		inq := newInquiry(t)
		inq.MarkResponded()

		inq.MarkRead()

		assert.Equal(t, StatusResponded, inq.Status)
	})

	t.Run("mark responded always applies", func(t *testing.T) {
		inq := newInquiry(t)

		inq.MarkResponded()

		assert.Equal(t, StatusResponded, inq.Status)
	})

	t.Run("set status accepts known values", func(t *testing.T) {
		inq := newInquiry(t)

		require.NoError(t, inq.SetStatus(StatusResponded))
		assert.Equal(t, StatusResponded, inq.Status)

		require.NoError(t, inq.SetStatus(StatusNew))
		assert.Equal(t, StatusNew, inq.Status)
	})

	t.Run("set status rejects unknown values", func(t *testing.T) {
		inq := newInquiry(t)

		err := inq.SetStatus(Status("archived"))

		assert.Error(t, err)
		assert.Equal(t, StatusNew, inq.Status)
	})
}

func TestInquiry_SetNotes(t *testing.T) {
	inq, err := NewInquiry("Jane Doe", "jane@example.com", "", "I'd like a quote for a patio.", "")
	require.NoError(t, err)

	inq.SetNotes("Called back on Tuesday, left voicemail.")

	assert.Equal(t, "Called back on Tuesday, left voicemail.", inq.Notes)
}
