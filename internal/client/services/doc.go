// Package services contains the application services behind the dashboard
// pages: catalog editing with image uploads, paginated listings, inquiry
// management and the stats overview.
package services
