package types

// FlightOffer is a single flight option returned by the flight search
// provider or its mock fallback.
type FlightOffer struct {
	ID                string  `json:"id"`
	FlightType        string  `json:"flight_type"` // outbound | return
	Airline           string  `json:"airline"`
	FlightNumber      string  `json:"flight_number"`
	FromAirport       string  `json:"from_airport"`
	ToAirport         string  `json:"to_airport"`
	DepartureDateTime string  `json:"departure_datetime"`
	ArrivalDateTime   string  `json:"arrival_datetime"`
	DurationMinutes   int     `json:"duration_minutes"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	BookingURL        string  `json:"booking_url"`
	Status            string  `json:"status"`
}

// HotelOffer is a single accommodation option for one city and date range.
type HotelOffer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"` // hotel | hostel
	Address       string   `json:"address"`
	City          string   `json:"city"`
	CheckInDate   string   `json:"check_in_date"`
	CheckOutDate  string   `json:"check_out_date"`
	PricePerNight float64  `json:"price_per_night"`
	TotalPrice    float64  `json:"total_price"`
	Currency      string   `json:"currency"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
	BookingURL    string   `json:"booking_url"`
	Status        string   `json:"status"`
}
