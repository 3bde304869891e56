package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

func fullPage(prefix string) []models.Record {
	out := make([]models.Record, 9)
	for i := range out {
		out[i] = models.Record{"_id": fmt.Sprintf("%s%d", prefix, i), "name": fmt.Sprintf("Item %d", i)}
	}
	return out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestList_LoadMore(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &adminUser)
	app.api.pages = [][]models.Record{fullPage("p"), {{"_id": "last", "name": "Last"}}}

	require.NoError(t, app.Dispatch(ctx, "list", []string{"products"}))
	assert.Equal(t, "list products", app.page)
	assert.Contains(t, app.out.String(), "(type 'more' to load more)")
	require.NotNil(t, app.more)

	require.NoError(t, app.Dispatch(ctx, "more", nil))
	calls := app.api.Calls()
	assert.Equal(t, 9, calls[len(calls)-1].Start, "next page starts after loaded items")
	assert.Contains(t, app.out.String(), " 10. last")
	assert.Nil(t, app.more, "short page ends the listing")

	require.Error(t, app.Dispatch(ctx, "more", nil))
}

func TestList_RejectsInquiriesAndUnknown(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &adminUser)

	require.Error(t, app.Dispatch(ctx, "list", []string{"bookings"}))
	require.Error(t, app.Dispatch(ctx, "list", []string{"spaceships"}))
	require.Error(t, app.Dispatch(ctx, "list", nil))
	assert.Empty(t, app.api.Calls())
}

func TestShow(t *testing.T) {
	app := newTestApp(t, &adminUser)
	app.api.records["v1"] = models.Record{"_id": "v1", "name": "Scoot", "specs": map[string]any{"speed": "45"}}

	require.NoError(t, app.Dispatch(context.Background(), "show", []string{"vehicles", "v1"}))
	assert.Contains(t, app.out.String(), "name: Scoot")
	assert.Contains(t, app.out.String(), "specs.speed: 45")
}

func TestCreate_UploadThenSaveReturnsToListing(t *testing.T) {
	img := writeFile(t, "helmet.jpg", []byte("jpeg bytes"))
	app := newTestApp(t, &adminUser,
		"set name=Helmet",
		"set startingPrice:=120",
		"upload "+img,
		"wait",
		"save",
	)

	require.NoError(t, app.Dispatch(context.Background(), "create", []string{"products"}))

	calls := app.api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "create", calls[0].Op)
	assert.Equal(t, map[string]any{
		"name":          "Helmet",
		"startingPrice": float64(120),
		"image":         "https://cdn.example.com/helmet.jpg",
	}, calls[0].Body)

	assert.Equal(t, "list", calls[1].Op)
	assert.Equal(t, "list products", app.page)
	assert.Contains(t, app.out.String(), "Saved.")
}

func TestCreate_ValidationKeepsForm(t *testing.T) {
	app := newTestApp(t, &adminUser,
		"set name=Helmet",
		"save",
		"show",
		"cancel",
	)

	require.NoError(t, app.Dispatch(context.Background(), "create", []string{"products"}))
	assert.Empty(t, app.api.Calls())
	out := app.out.String()
	assert.Contains(t, out, "Required: name, startingPrice")
	assert.Contains(t, out, "error: required: startingPrice")
	assert.Contains(t, out, "missing: startingPrice")
	assert.Equal(t, "create products", app.page)
}

func TestCreate_FailedUploadIsReported(t *testing.T) {
	bad := writeFile(t, "bad.jpg", []byte("x"))
	app := newTestApp(t, &adminUser,
		"upload "+bad,
		"wait",
		"messages",
		"dismiss 1",
		"dismiss 1",
		"cancel",
	)

	require.NoError(t, app.Dispatch(context.Background(), "create", []string{"brands"}))
	out := app.out.String()
	assert.Contains(t, out, "failed bad.jpg: rejected")
	assert.Contains(t, out, "Could not upload bad.jpg")
	assert.Contains(t, out, "error: no message 1")
	assert.Empty(t, app.api.Calls())
}

func TestCreate_FieldsAndText(t *testing.T) {
	app := newTestApp(t, &adminUser,
		"fields",
		"title=Launch day",
		"meta.tags:=[\"news\"]",
		"",
		"text content",
		"first line",
		"second line",
		"",
		"save",
	)

	require.NoError(t, app.Dispatch(context.Background(), "create", []string{"posts"}))
	calls := app.api.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, map[string]any{
		"title":   "Launch day",
		"meta":    map[string]any{"tags": []any{"news"}},
		"content": "first line\nsecond line",
	}, calls[0].Body)
}

func TestEdit_UnchangedIsRejected(t *testing.T) {
	app := newTestApp(t, &adminUser, "save", "cancel")
	app.api.records["p1"] = models.Record{"_id": "p1", "name": "Helmet", "startingPrice": 120.0, "image": "u1"}

	require.NoError(t, app.Dispatch(context.Background(), "edit", []string{"products", "p1"}))
	assert.Contains(t, app.out.String(), "error: no changes made")
	assert.Equal(t, []string{"get"}, app.api.ops())
}

func TestEdit_VehicleRemoveImageAndSave(t *testing.T) {
	app := newTestApp(t, &adminUser, "images", "rm u1", "save")
	app.api.records["v1"] = models.Record{
		"_id": "v1", "name": "Scoot", "startingPrice": 1, "speed": 45, "range": 80,
		"description": "fast", "images": []any{"u1", "u2"},
	}

	require.NoError(t, app.Dispatch(context.Background(), "edit", []string{"vehicles", "v1"}))
	assert.Equal(t, []string{"get", "delete-images", "update", "list"}, app.api.ops())

	upd := app.api.Calls()[2]
	body := upd.Body.(map[string]any)
	assert.Equal(t, []any{"u2"}, body["images"])
	assert.Equal(t, "list vehicles", app.page)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		app := newTestApp(t, &adminUser, "n")
		require.NoError(t, app.Dispatch(ctx, "delete", []string{"products", "p1"}))
		assert.Empty(t, app.api.Calls())
	})

	t.Run("removes from current listing", func(t *testing.T) {
		app := newTestApp(t, &adminUser, "y")
		app.api.pages = [][]models.Record{{{"_id": "p1"}, {"_id": "p2"}}}
		require.NoError(t, app.Dispatch(ctx, "list", []string{"products"}))

		require.NoError(t, app.Dispatch(ctx, "delete", []string{"products", "p1"}))
		assert.Equal(t, []string{"list", "delete"}, app.api.ops())
		items := app.records.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "p2", items[0].ID())
	})

	t.Run("dealer application", func(t *testing.T) {
		app := newTestApp(t, &adminUser, "yes")
		require.NoError(t, app.Dispatch(ctx, "delete", []string{"dealers", "d1"}))
		calls := app.api.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, apiCall{Op: "delete", Resource: "dealers", ID: "d1"}, calls[0])
	})
}

func TestResources(t *testing.T) {
	app := newTestApp(t, &adminUser)
	require.NoError(t, app.Dispatch(context.Background(), "resources", nil))
	out := app.out.String()
	assert.Contains(t, out, "vehicles")
	assert.Contains(t, out, "testimonials")
	assert.NotContains(t, out, "bookings")
}

func TestList_VehiclesHaveNoMore(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, &adminUser)
	all := append(fullPage("v"), models.Record{"_id": "v9"})
	app.api.pages = [][]models.Record{all, all}

	require.NoError(t, app.Dispatch(ctx, "list", []string{"vehicles"}))
	assert.NotContains(t, app.out.String(), "(type 'more' to load more)")
	assert.Nil(t, app.more)
	require.Error(t, app.Dispatch(ctx, "more", nil))
	assert.Len(t, app.records.Items(), 10)
}
