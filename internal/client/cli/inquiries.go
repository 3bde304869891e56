package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dealerdash/internal/client/export"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

func (a *App) stats(ctx context.Context, _ []string) error {
	st, err := a.inquiries.Stats(ctx)
	if err != nil {
		return err
	}
	a.navigate("stats")
	fmt.Fprintf(a.out, "Vehicles:     %d\n", st.TotalVehicles)
	fmt.Fprintf(a.out, "Products:     %d\n", st.TotalProducts)
	fmt.Fprintf(a.out, "Posts:        %d\n", st.TotalPosts)
	fmt.Fprintf(a.out, "Testimonials: %d\n", st.TotalTestimonials)
	return nil
}

func (a *App) bookings(ctx context.Context, _ []string) error {
	p := a.inquiries.Bookings()
	if err := p.Load(ctx); err != nil {
		return err
	}
	a.navigate("bookings")
	a.bookingList = p

	items := p.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No bookings yet.")
	}
	a.printBookings(items, 0)

	var next func(ctx context.Context) error
	next = func(ctx context.Context) error {
		before := len(p.Items())
		n, err := p.LoadMore(ctx)
		if err != nil {
			return err
		}
		a.printBookings(p.Items()[before:before+n], before)
		a.offerMore(p.HasMore(), next)
		return nil
	}
	a.offerMore(p.HasMore(), next)
	return nil
}

func (a *App) printBookings(items []models.Booking, offset int) {
	for i, b := range items {
		fmt.Fprintf(a.out, "%3d. %-24s %-20s %-14s %-12s %s\n",
			offset+i+1, b.ID, b.Name, b.ContactNumber, b.ScooterModel, b.City)
	}
}

func (a *App) dealers(ctx context.Context, _ []string) error {
	list, err := a.inquiries.Dealers(ctx)
	if err != nil {
		return err
	}
	a.navigate("dealers")
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No dealer applications yet.")
	}
	for i, d := range list {
		fmt.Fprintf(a.out, "%3d. %-24s %-20s %-14s %s\n", i+1, d.ID, d.Name, d.ContactNumber, d.InvestmentCapacity)
	}
	return nil
}

// export writes every booking or dealer application to an XLSX file.
func (a *App) export(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("export")
	}
	kind, path := args[0], args[1]

	var write func(f *os.File) error
	switch kind {
	case "bookings":
		all, err := a.allBookings(ctx)
		if err != nil {
			return err
		}
		write = func(f *os.File) error { return export.Bookings(f, all) }
	case "dealers":
		all, err := a.inquiries.Dealers(ctx)
		if err != nil {
			return err
		}
		write = func(f *os.File) error { return export.Dealers(f, all) }
	default:
		return usage("export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}
	fmt.Fprintf(a.out, "Exported %s to %s\n", kind, path)
	return nil
}

func (a *App) allBookings(ctx context.Context) ([]models.Booking, error) {
	p := a.inquiries.Bookings()
	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	for p.HasMore() {
		n, err := p.LoadMore(ctx)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return p.Items(), nil
}
