package user

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	usr := &User{Username: "alice"}

	err := usr.SetPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, usr.PasswordHash)
	assert.NotContains(t, usr.PasswordHash, "correct horse")

	assert.True(t, usr.CheckPassword("correct horse battery staple"))
	assert.False(t, usr.CheckPassword("wrong"))
	assert.False(t, usr.CheckPassword(""))
}

func TestSetPasswordRehashes(t *testing.T) {
	usr := &User{}
	require.NoError(t, usr.SetPassword("first"))
	firstHash := usr.PasswordHash

	require.NoError(t, usr.SetPassword("second"))
	assert.NotEqual(t, firstHash, usr.PasswordHash)
	assert.False(t, usr.CheckPassword("first"))
	assert.True(t, usr.CheckPassword("second"))
}

func TestHashSurvivesStorageSerialization(t *testing.T) {
	usr := &User{ID: "u-1", Username: "alice"}
	require.NoError(t, usr.SetPassword("s3cret"))

	// the storage layer round-trips users through JSON
	b, err := json.Marshal(usr)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "password_hash"))

	var restored User
	require.NoError(t, json.Unmarshal(b, &restored))
	assert.True(t, restored.CheckPassword("s3cret"))
}
