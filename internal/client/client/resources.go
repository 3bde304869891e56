package client

import (
	"sort"
	"strings"
)

// Resource describes how one entity type is reached on the API. Paths may
// contain {id} and {user} placeholders. A GetQuery resource is fetched via
// its list endpoint filtered by that query parameter.
type Resource struct {
	Name       string
	ListPath   string
	ListKey    string
	GetPath    string
	GetQuery   string
	CreatePath string
	UpdatePath string
	DeletePath string

	// ImageField is the draft field uploaded image URLs are written to.
	ImageField string
	// MultiImage resources accept several images per record.
	MultiImage bool
	// Paginated listings accept startIndex.
	Paginated bool
}

func (r Resource) CanGet() bool    { return r.GetPath != "" || r.GetQuery != "" }
func (r Resource) CanCreate() bool { return r.CreatePath != "" }
func (r Resource) CanUpdate() bool { return r.UpdatePath != "" }
func (r Resource) CanDelete() bool { return r.DeletePath != "" }

// catalog builds the resource shape shared by the CMS collections
// (products, posts, sliders, ...).
func catalog(name, prefix, singular string) Resource {
	return Resource{
		Name:       name,
		ListPath:   "/api/" + prefix + "/get" + name,
		ListKey:    name,
		GetQuery:   singular + "Id",
		CreatePath: "/api/" + prefix + "/create",
		UpdatePath: "/api/" + prefix + "/update" + singular + "/{id}",
		DeletePath: "/api/" + prefix + "/delete" + singular + "/{id}",
		ImageField: "image",
		Paginated:  true,
	}
}

var registry = map[string]Resource{
	"vehicles": {
		Name:       "vehicles",
		ListPath:   "/api/vehicles",
		ListKey:    "vehicles",
		GetPath:    "/api/vehicles/{id}",
		CreatePath: "/api/vehicles",
		UpdatePath: "/api/vehicles/{id}",
		DeletePath: "/api/vehicles/{id}",
		ImageField: "images",
		MultiImage: true,
	},
	"products": catalog("products", "product", "product"),
	"testimonials": func() Resource {
		r := catalog("testimonials", "testimonial", "testimonial")
		r.UpdatePath += "/{user}"
		r.DeletePath += "/{user}"
		return r
	}(),
	"posts":    catalog("posts", "post", "post"),
	"sliders":  catalog("sliders", "slider", "slider"),
	"brands":   catalog("brands", "brand", "brand"),
	"services": catalog("services", "service", "service"),
	"bookings": {
		Name:       "bookings",
		ListPath:   "/api/booking/getAllBookings",
		ListKey:    "bookings",
		DeletePath: "/api/booking/{id}",
		Paginated:  true,
	},
	"dealers": {
		Name:       "dealers",
		ListPath:   "/api/applicant/",
		ListKey:    "getDealers",
		DeletePath: "/api/dealer/deletedelear/{id}",
	},
}

// Lookup returns the resource registered under name.
func Lookup(name string) (Resource, bool) {
	r, ok := registry[name]
	return r, ok
}

// Names lists registered resources in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func expand(path, id, user string) string {
	return strings.NewReplacer("{id}", id, "{user}", user).Replace(path)
}
