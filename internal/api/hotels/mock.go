package hotels

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type hotelTemplate struct {
	name      string
	rating    float64
	basePrice int
	amenities []string
}

var hotelTemplates = map[string][]hotelTemplate{
	"Tokyo": {
		{"Hotel Gracery Shinjuku", 4.0, 120, []string{"wifi", "restaurant"}},
		{"Park Hyatt Tokyo", 5.0, 450, []string{"wifi", "pool", "spa", "gym"}},
		{"Capsule Hotel Anshin Oyado", 3.0, 35, []string{"wifi"}},
		{"Shibuya Excel Hotel Tokyu", 4.0, 180, []string{"wifi", "restaurant"}},
		{"9 Hours Narita", 3.0, 45, []string{"wifi"}},
	},
	"Paris": {
		{"Hotel Malte Opera", 4.0, 200, []string{"wifi", "breakfast"}},
		{"Le Meurice", 5.0, 800, []string{"wifi", "spa", "pool", "gym"}},
		{"Generator Paris", 3.0, 60, []string{"wifi", "kitchen"}},
		{"Hotel du Louvre", 4.0, 280, []string{"wifi", "restaurant", "gym"}},
		{"St Christopher's Inn", 2.5, 45, []string{"wifi", "kitchen"}},
	},
	"London": {
		{"The Strand Palace", 4.0, 180, []string{"wifi", "restaurant"}},
		{"The Savoy", 5.0, 600, []string{"wifi", "spa", "pool", "gym"}},
		{"Generator London", 3.0, 55, []string{"wifi", "kitchen"}},
		{"Hub by Premier Inn", 3.5, 100, []string{"wifi"}},
		{"YHA London Central", 3.0, 40, []string{"wifi", "kitchen"}},
	},
	"New York": {
		{"The New Yorker", 4.0, 220, []string{"wifi", "gym"}},
		{"The Plaza", 5.0, 750, []string{"wifi", "spa", "pool", "gym"}},
		{"HI NYC Hostel", 3.0, 50, []string{"wifi", "kitchen"}},
		{"Arlo SoHo", 4.0, 200, []string{"wifi", "restaurant"}},
		{"Pod 51", 3.5, 90, []string{"wifi"}},
	},
	"Barcelona": {
		{"Hotel Barcelona Universal", 4.0, 150, []string{"wifi", "pool", "gym"}},
		{"W Barcelona", 5.0, 400, []string{"wifi", "spa", "pool", "gym"}},
		{"Kabul Party Hostel", 3.0, 35, []string{"wifi", "kitchen"}},
		{"Hotel 1898", 4.0, 200, []string{"wifi", "spa", "pool"}},
		{"Generator Barcelona", 3.0, 50, []string{"wifi", "kitchen"}},
	},
	"Rome": {
		{"Hotel Artis", 3.5, 100, []string{"wifi", "breakfast"}},
		{"Hotel Eden", 5.0, 550, []string{"wifi", "spa", "gym"}},
		{"The Beehive", 3.0, 70, []string{"wifi", "kitchen"}},
		{"Hotel de Russie", 5.0, 500, []string{"wifi", "spa", "gym"}},
		{"Generator Rome", 3.0, 45, []string{"wifi", "kitchen"}},
	},
	"Bangkok": {
		{"Lub d Bangkok Silom", 3.5, 35, []string{"wifi", "pool"}},
		{"Mandarin Oriental", 5.0, 400, []string{"wifi", "spa", "pool", "gym"}},
		{"Mad Monkey Hostel", 3.0, 20, []string{"wifi", "pool", "kitchen"}},
		{"Chatrium Hotel Riverside", 4.5, 80, []string{"wifi", "pool", "gym"}},
		{"The Yard Hostel", 3.0, 25, []string{"wifi", "kitchen"}},
	},
	"Dubai": {
		{"Rove Downtown Dubai", 4.0, 120, []string{"wifi", "pool", "gym"}},
		{"Burj Al Arab", 5.0, 900, []string{"wifi", "spa", "pool", "gym"}},
		{"At The Top Hostel", 3.0, 40, []string{"wifi", "pool"}},
		{"Atlantis The Palm", 5.0, 400, []string{"wifi", "spa", "waterpark", "gym"}},
		{"Holiday Inn Express", 3.5, 70, []string{"wifi", "pool"}},
	},
	"Singapore": {
		{"Hotel 81", 3.0, 60, []string{"wifi"}},
		{"Marina Bay Sands", 5.0, 450, []string{"wifi", "spa", "pool", "gym"}},
		{"Beary Best Hostel", 3.0, 35, []string{"wifi", "kitchen"}},
		{"The Fullerton Hotel", 5.0, 350, []string{"wifi", "pool", "gym"}},
		{"5footway.inn", 3.0, 50, []string{"wifi"}},
	},
	"Sydney": {
		{"Wake Up! Sydney Central", 3.5, 45, []string{"wifi", "kitchen"}},
		{"Park Hyatt Sydney", 5.0, 600, []string{"wifi", "spa", "pool", "gym"}},
		{"Zara Tower", 4.0, 150, []string{"wifi", "gym"}},
		{"Sydney Harbour YHA", 3.5, 55, []string{"wifi", "kitchen", "pool"}},
		{"Meriton Suites", 4.5, 180, []string{"wifi", "pool", "gym"}},
	},
}

var defaultHotels = []hotelTemplate{
	{"City Center Hotel", 4.0, 120, []string{"wifi", "restaurant"}},
	{"Grand Luxury Hotel", 5.0, 350, []string{"wifi", "spa", "pool", "gym"}},
	{"Backpackers Hostel", 2.5, 30, []string{"wifi", "kitchen"}},
	{"Boutique Hotel", 4.0, 150, []string{"wifi", "breakfast"}},
	{"Budget Inn", 3.0, 60, []string{"wifi"}},
}

func mockSeed(parts ...string) int64 {
	h := md5.Sum([]byte(strings.Join(parts, "|")))
	seed, _ := strconv.ParseInt(hex.EncodeToString(h[:])[:8], 16, 64)
	return seed
}

// generateMockAccommodations produces hotel options for a city and date
// range. Output is deterministic for identical search parameters.
func generateMockAccommodations(cityName, checkIn, checkOut string, numGuests int) []types.HotelOffer {
	templates, ok := hotelTemplates[cityName]
	if !ok {
		templates = defaultHotels
	}

	rng := rand.New(rand.NewSource(mockSeed(cityName, checkIn, checkOut, strconv.Itoa(numGuests))))

	nights := 1
	checkInDt, errIn := time.Parse("2006-01-02", checkIn)
	checkOutDt, errOut := time.Parse("2006-01-02", checkOut)
	if errIn == nil && errOut == nil {
		if n := int(checkOutDt.Sub(checkInDt).Hours() / 24); n > 1 {
			nights = n
		}
	}

	offers := make([]types.HotelOffer, 0, len(templates))
	for i, tmpl := range templates {
		priceVariation := 0.8 + rng.Float64()*0.5
		pricePerNight := math.Round(float64(tmpl.basePrice) * priceVariation)

		hotelType := "hotel"
		if tmpl.rating < 3 {
			hotelType = "hostel"
		}

		offers = append(offers, types.HotelOffer{
			ID:            fmt.Sprintf("acc_%d", i),
			Name:          tmpl.name,
			Type:          hotelType,
			Address:       fmt.Sprintf("%d Main Street, %s", 1+rng.Intn(200), cityName),
			City:          cityName,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			PricePerNight: pricePerNight,
			TotalPrice:    pricePerNight * float64(nights),
			Currency:      "USD",
			Rating:        tmpl.rating,
			Amenities:     tmpl.amenities,
			BookingURL: fmt.Sprintf("https://www.booking.com/hotel/%s.html",
				strings.ReplaceAll(strings.ToLower(tmpl.name), " ", "-")),
			Status: "suggested",
		})
	}
	return offers
}
