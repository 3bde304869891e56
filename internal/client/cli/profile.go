package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/session"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/client/upload"
)

const profilePictureField = "profilePicture"

// profileForm edits the signed-in user. Only changed fields are sent.
type profileForm struct {
	pipeline *upload.Pipeline
	draft    upload.Draft
	submit   upload.SubmitFunc
}

func newProfileForm(s *session.Session, uploader storage.Uploader, submit upload.SubmitFunc, opts upload.Options) *profileForm {
	original := map[string]any{
		"username":          s.User.Username,
		"email":             s.User.Email,
		profilePictureField: s.User.ProfilePicture,
	}
	opts.Mode = upload.Replace
	opts.ImageField = profilePictureField

	p := upload.NewPipeline(uploader, opts)
	if s.User.ProfilePicture != "" {
		p.SeedURLs([]string{s.User.ProfilePicture})
	}
	return &profileForm{
		pipeline: p,
		draft:    upload.EditDraft(original, "username", "email").Partial(),
		submit:   submit,
	}
}

func (f *profileForm) Set(path string, value any) { f.draft = upload.Apply(f.draft, path, value) }
func (f *profileForm) Draft() upload.Draft        { return f.draft }
func (f *profileForm) Pipeline() *upload.Pipeline { return f.pipeline }
func (f *profileForm) Close()                     { f.pipeline.Abandon() }

func (f *profileForm) Upload(ctx context.Context, blobs ...storage.Blob) (*upload.Batch, error) {
	return f.pipeline.StartUpload(ctx, blobs)
}

func (f *profileForm) RemoveImage(_ context.Context, url string) error {
	if !f.pipeline.RemoveURL(url) {
		return fmt.Errorf("image %s is not attached", url)
	}
	f.draft = upload.Apply(f.draft, profilePictureField, "")
	return nil
}

func (f *profileForm) Submit(ctx context.Context) (json.RawMessage, error) {
	return f.pipeline.Submit(ctx, f.draft, f.submit)
}

// profile shows the signed-in user and opens the profile form.
func (a *App) profile(ctx context.Context, _ []string) error {
	cur := a.store.Current()
	if cur == nil {
		return session.ErrNotSignedIn
	}
	a.navigate("profile")

	fmt.Fprintf(a.out, "username: %s\nemail: %s\nadmin: %t\n", cur.User.Username, cur.User.Email, cur.User.IsAdmin)
	if cur.User.ProfilePicture != "" {
		fmt.Fprintf(a.out, "picture: %s\n", cur.User.ProfilePicture)
	}

	f := newProfileForm(cur, a.uploader, a.auth.ProfileSubmitter(), upload.Options{
		MaxBlobSize: a.config.MaxUploadSize,
		Log:         a.log,
	})
	saved, err := a.runForm(ctx, "profile", f)
	if err != nil || !saved {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated for %s\n", displayName(a.store.Current()))
	return nil
}
