package models

import "time"

// Booking is a customer test-ride/booking inquiry.
type Booking struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ScooterModel  string    `json:"scooterModel"`
	Color         string    `json:"color"`
	BookingAmount float64   `json:"bookingAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DealerApplication is a dealership partnership request.
type DealerApplication struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ContactNumber      string `json:"contactNumber"`
	PresentBusiness    string `json:"presentBusiness"`
	InvestmentCapacity string `json:"investmentCapacity"`
}

// Stats are the dashboard counters.
type Stats struct {
	TotalVehicles     int `json:"totalVehicles"`
	TotalPosts        int `json:"totalPosts"`
	TotalTestimonials int `json:"totalTestimonials"`
	TotalProducts     int `json:"totalProducts"`
}
