package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/client/upload"
)

// form is an open create/edit page backed by an upload pipeline.
// services.Editor implements it, as does profileForm.
type form interface {
	Set(path string, value any)
	Draft() upload.Draft
	Pipeline() *upload.Pipeline
	Upload(ctx context.Context, blobs ...storage.Blob) (*upload.Batch, error)
	RemoveImage(ctx context.Context, url string) error
	Submit(ctx context.Context) (json.RawMessage, error)
	Close()
}

const formHelp = `Form commands:
  set <name>=<value> | set <name>:=<json>
  fields                  enter several fields, one per line
  text <name>             enter a multi-line value
  select <file>...        choose files without uploading
  upload [<file>...]      upload files (or the selection) in the background
  wait                    wait for the current uploads
  status                  show upload tasks
  images                  list uploaded images
  rm <url>                remove an image
  messages | dismiss <n>  show or dismiss upload errors
  show                    show the form values
  save | cancel`

// pollInterval paces the progress line printed by "wait".
var pollInterval = 200 * time.Millisecond

// runForm reads form commands until the form is saved or cancelled. It
// reports whether the record was saved. Leaving the form in any way abandons
// uploads still in flight.
func (a *App) runForm(ctx context.Context, title string, f form) (bool, error) {
	unsubscribe := f.Pipeline().Subscribe(a.printTaskEvent)
	defer unsubscribe()
	defer f.Close()

	fmt.Fprintln(a.out, formHelp)

	var batch *upload.Batch
	for {
		line, err := getSimpleText(a.reader, "["+title+"]", a.out)
		if err != nil {
			return false, err
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "":
		case "set":
			err = a.setField(f, rest)
		case "fields":
			var lines []string
			if lines, err = GetFields(a.reader, a.out); err == nil {
				for _, l := range lines {
					if err = a.setField(f, l); err != nil {
						break
					}
				}
			}
		case "text":
			if rest == "" {
				err = errors.New("usage: text <name>")
				break
			}
			var text string
			if text, err = GetMultiline(a.reader, "Enter "+rest, a.out); err == nil {
				f.Set(rest, text)
			}
		case "select":
			var blobs []storage.Blob
			if blobs, err = fileBlobs(strings.Fields(rest)); err == nil {
				f.Pipeline().SelectFiles(blobs)
				fmt.Fprintf(a.out, "%d file(s) selected\n", len(blobs))
			}
		case "upload":
			var blobs []storage.Blob
			if blobs, err = fileBlobs(strings.Fields(rest)); err != nil {
				break
			}
			var b *upload.Batch
			if b, err = f.Upload(ctx, blobs...); err == nil {
				batch = b
				fmt.Fprintf(a.out, "uploading %d file(s)\n", len(b.Tasks()))
			}
		case "wait":
			err = a.waitBatch(ctx, batch)
		case "status":
			a.printBatch(batch)
		case "images":
			for i, u := range f.Pipeline().URLs() {
				fmt.Fprintf(a.out, "%3d. %s\n", i+1, u)
			}
		case "rm":
			if rest == "" {
				err = errors.New("usage: rm <url>")
				break
			}
			err = f.RemoveImage(ctx, rest)
		case "messages":
			for _, m := range f.Pipeline().Messages() {
				fmt.Fprintf(a.out, "[%d] %s\n", m.ID, m.Text)
			}
		case "dismiss":
			var id int
			if id, err = strconv.Atoi(rest); err == nil && !f.Pipeline().DismissMessage(id) {
				err = fmt.Errorf("no message %d", id)
			}
		case "show":
			a.printDraft(f)
		case "save":
			if _, err = f.Submit(ctx); err == nil {
				fmt.Fprintln(a.out, "Saved.")
				return true, nil
			}
		case "cancel":
			return false, nil
		default:
			err = fmt.Errorf("unknown form command: %s", cmd)
		}

		if err != nil {
			fmt.Fprintln(a.out, "error:", err)
		}
	}
}

func (a *App) setField(f form, line string) error {
	path, v, err := parseAssignment(line)
	if err != nil {
		return err
	}
	f.Set(path, v)
	return nil
}

func fileBlobs(paths []string) ([]storage.Blob, error) {
	blobs := make([]storage.Blob, 0, len(paths))
	for _, p := range paths {
		b, err := storage.FileBlob(p)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}

// waitBatch blocks until b is finished, printing overall progress.
func (a *App) waitBatch(ctx context.Context, b *upload.Batch) error {
	if b == nil {
		return errors.New("nothing is uploading")
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.Done():
			a.printBatch(b)
			return nil
		case <-ticker.C:
			fmt.Fprintf(a.out, "uploading... %d%%\n", int(b.Progress()*100))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *App) printBatch(b *upload.Batch) {
	if b == nil {
		fmt.Fprintln(a.out, "no uploads")
		return
	}
	for _, t := range b.Tasks() {
		line := fmt.Sprintf("%-30s %-9s %3d%%", t.Name, t.Status, t.Percent())
		switch {
		case t.URL != "":
			line += "  " + t.URL
		case t.Err != nil:
			line += "  " + t.Err.Error()
		}
		fmt.Fprintln(a.out, line)
	}
}

// printTaskEvent reports finished uploads as they happen.
func (a *App) printTaskEvent(e upload.Event) {
	switch e.Task.Status {
	case upload.Succeeded:
		fmt.Fprintf(a.out, "uploaded %s\n", e.Task.Name)
	case upload.Failed:
		fmt.Fprintf(a.out, "failed %s: %v\n", e.Task.Name, e.Task.Err)
	}
}

func (a *App) printDraft(f form) {
	for _, fld := range models.Record(f.Draft().Values()).Flatten() {
		fmt.Fprintf(a.out, "%s: %v\n", fld.Path, fld.Value)
	}
	if urls := f.Pipeline().URLs(); len(urls) > 0 {
		fmt.Fprintf(a.out, "images: %s\n", strings.Join(urls, ", "))
	}
	if missing := f.Draft().Missing(); len(missing) > 0 {
		fmt.Fprintf(a.out, "missing: %s\n", strings.Join(missing, ", "))
	}
}

// lockedWriter serialises writes from upload goroutines and the REPL.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
