package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversationID_OrderIndependent(t *testing.T) {
	ab, err := ConversationID("a1", "b1")
	require.NoError(t, err)
	ba, err := ConversationID("b1", "a1")
	require.NoError(t, err)
	require.Equal(t, ab, ba)
	require.Equal(t, "a1_b1", ab)
}

func TestConversationID_TrimsWhitespace(t *testing.T) {
	id, err := ConversationID(" zed ", "amy")
	require.NoError(t, err)
	require.Equal(t, "amy_zed", id)
}

func TestConversationID_RejectsEmpty(t *testing.T) {
	_, err := ConversationID("", "b1")
	require.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = ConversationID("a1", "   ")
	require.ErrorIs(t, err, ErrInvalidParticipants)
}

func TestConversationID_RejectsSelf(t *testing.T) {
	_, err := ConversationID("a1", "a1")
	require.ErrorIs(t, err, ErrInvalidParticipants)
}

func TestParticipants_SortedPair(t *testing.T) {
	require.Equal(t, [2]string{"a1", "b1"}, Participants("b1", "a1"))
	require.Equal(t, [2]string{"a1", "b1"}, Participants("a1", "b1"))
}
