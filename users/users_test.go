package users_test

import (
	"testing"

	"github.com/Paul200287/GradeTracker/users"
	"github.com/stretchr/testify/require"
)

func TestUser_SubjectID(t *testing.T) {
	require.Equal(t, "12", (&users.User{ID: 12, Email: "x@example.com"}).SubjectID())
	require.Equal(t, "x@example.com", (&users.User{Email: "x@example.com"}).SubjectID())
}

func TestUser_NilSafe(t *testing.T) {
	var u *users.User
	require.False(t, u.HasID())
	require.False(t, u.IsSuperuser())
	require.Empty(t, u.DisplayName())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("password")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("password", hash))
	require.False(t, users.CheckPasswordHash("Password", hash))
}
