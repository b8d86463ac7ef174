package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsernames_FirstSeenOrder(t *testing.T) {
	table := Table{
		{Username: "Bob"},
		{Username: "Alice"},
		{Username: "Bob"},
		{Username: "Carol"},
	}
	require.Equal(t, []string{"Bob", "Alice", "Carol"}, table.Usernames())
}

func TestUsernames_Empty(t *testing.T) {
	require.Empty(t, Table{}.Usernames())
}
