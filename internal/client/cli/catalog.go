package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/services"
)

// catalogResource resolves an editable collection by name. Bookings and
// dealer applications have their own pages.
func catalogResource(name string) (client.Resource, error) {
	res, ok := client.Lookup(name)
	if !ok || !res.CanCreate() {
		return client.Resource{}, fmt.Errorf("unknown resource %q (try 'resources')", name)
	}
	return res, nil
}

func (a *App) resources(context.Context, []string) error {
	for _, name := range client.Names() {
		if res, _ := client.Lookup(name); res.CanCreate() {
			fmt.Fprintln(a.out, "  "+name)
		}
	}
	return nil
}

// list shows the first page of a collection; "more" appends the next one.
func (a *App) list(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("list")
	}
	res, err := catalogResource(args[0])
	if err != nil {
		return err
	}

	p := a.catalog.Listing(res)
	if err := p.Load(ctx); err != nil {
		return fmt.Errorf("list %s: %w", res.Name, err)
	}
	a.navigate("list " + res.Name)
	a.records, a.recordsOf = p, res.Name

	items := p.Items()
	if len(items) == 0 {
		fmt.Fprintf(a.out, "No %s yet.\n", res.Name)
	}
	a.printRecords(items, 0)

	var next func(ctx context.Context) error
	next = func(ctx context.Context) error {
		before := len(p.Items())
		n, err := p.LoadMore(ctx)
		if err != nil {
			return err
		}
		a.printRecords(p.Items()[before:before+n], before)
		a.offerMore(p.HasMore(), next)
		return nil
	}
	a.offerMore(p.HasMore(), next)
	return nil
}

func (a *App) loadMore(ctx context.Context, _ []string) error {
	if a.more == nil {
		return fmt.Errorf("nothing more to load")
	}
	return a.more(ctx)
}

// offerMore arms or disarms the "more" command.
func (a *App) offerMore(hasMore bool, next func(ctx context.Context) error) {
	if !hasMore {
		a.more = nil
		return
	}
	a.more = next
	fmt.Fprintln(a.out, "(type 'more' to load more)")
}

func (a *App) printRecords(items []models.Record, offset int) {
	for i, r := range items {
		fmt.Fprintf(a.out, "%3d. %-24s %s\n", offset+i+1, r.ID(), r.Title())
	}
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("show")
	}
	res, err := catalogResource(args[0])
	if err != nil {
		return err
	}
	rec, err := a.catalog.Get(ctx, res, args[1])
	if err != nil {
		return err
	}
	a.navigate("show " + res.Name)
	for _, f := range rec.Flatten() {
		fmt.Fprintf(a.out, "%s: %v\n", f.Path, f.Value)
	}
	return nil
}

func (a *App) create(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("create")
	}
	res, err := catalogResource(args[0])
	if err != nil {
		return err
	}
	a.navigate("create " + res.Name)
	if req := services.RequiredFields(res.Name); len(req) > 0 {
		fmt.Fprintf(a.out, "Required: %s\n", strings.Join(req, ", "))
	}
	return a.edited(ctx, res, a.catalog.NewEditor(res))
}

func (a *App) edit(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("edit")
	}
	res, err := catalogResource(args[0])
	if err != nil {
		return err
	}
	e, err := a.catalog.OpenEditor(ctx, res, args[1])
	if err != nil {
		return err
	}
	a.navigate("edit " + res.Name)
	a.printDraft(e)
	return a.edited(ctx, res, e)
}

// edited runs the form and, once saved, returns to the collection listing.
func (a *App) edited(ctx context.Context, res client.Resource, e *services.Editor) error {
	saved, err := a.runForm(ctx, a.page, e)
	if err != nil || !saved {
		return err
	}
	return a.list(ctx, []string{res.Name})
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("delete")
	}
	name, id := args[0], args[1]

	var del func(ctx context.Context) error
	switch name {
	case "bookings":
		del = func(ctx context.Context) error { return a.inquiries.DeleteBooking(ctx, id) }
	case "dealers":
		del = func(ctx context.Context) error { return a.inquiries.DeleteDealer(ctx, id) }
	default:
		res, err := catalogResource(name)
		if err != nil {
			return err
		}
		del = func(ctx context.Context) error { return a.catalog.Delete(ctx, res, id) }
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %s %s?", name, id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := del(ctx); err != nil {
		return err
	}

	switch {
	case name == "bookings" && a.bookingList != nil:
		a.bookingList.Remove(func(b models.Booking) bool { return b.ID == id })
	case name == a.recordsOf && a.records != nil:
		a.records.Remove(func(r models.Record) bool { return r.ID() == id })
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}
