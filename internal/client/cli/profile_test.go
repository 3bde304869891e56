package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

func TestProfile_SendsOnlyChangedFields(t *testing.T) {
	app := newTestApp(t, &staffUser, "set username=neo", "save")

	require.NoError(t, app.Dispatch(context.Background(), "profile", nil))
	assert.Equal(t, map[string]any{"username": "neo"}, app.auth.changes)
	assert.Equal(t, "neo", app.store.Current().User.Username)
	assert.Contains(t, app.out.String(), "Profile updated for neo")
	assert.Empty(t, app.api.Calls())
}

func TestProfile_PictureUpload(t *testing.T) {
	pic := writeFile(t, "me.png", []byte("png"))
	app := newTestApp(t, &staffUser, "select "+pic, "upload", "wait", "save")

	require.NoError(t, app.Dispatch(context.Background(), "profile", nil))
	assert.Equal(t, map[string]any{"profilePicture": "https://cdn.example.com/me.png"}, app.auth.changes)
	assert.Equal(t, "https://cdn.example.com/me.png", app.store.Current().User.ProfilePicture)
}

func TestProfile_UnchangedAndCancel(t *testing.T) {
	app := newTestApp(t, &staffUser, "save", "cancel")

	require.NoError(t, app.Dispatch(context.Background(), "profile", nil))
	assert.Nil(t, app.auth.changes)
	assert.Contains(t, app.out.String(), "error: no changes made")
}

func TestProfile_RemovePicture(t *testing.T) {
	u := staffUser
	u.ProfilePicture = "https://cdn.example.com/old.png"
	app := newTestApp(t, &u, "rm https://cdn.example.com/old.png", "rm nope", "save")

	require.NoError(t, app.Dispatch(context.Background(), "profile", nil))
	assert.Equal(t, map[string]any{"profilePicture": ""}, app.auth.changes)
	assert.Contains(t, app.out.String(), "error: image nope is not attached")
}

func TestProfile_EndOfInputAbandonsForm(t *testing.T) {
	app := newTestApp(t, &models.User{ID: "u3", Email: "x@example.com"}, "set username=half")

	err := app.Dispatch(context.Background(), "profile", nil)
	require.Error(t, err)
	assert.Nil(t, app.auth.changes)
}
