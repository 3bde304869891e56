// Package models defines the records exchanged with the dealership API.
//
// Catalog entities (vehicles, products, posts, ...) are edited as free-form
// nested documents and are represented by Record. Read-only inquiry data and
// the dashboard counters have fixed shapes and get concrete types.
package models
