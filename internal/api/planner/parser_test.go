package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONResponse(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}\n```"))
	// Prose before the fence is discarded
	assert.Equal(t, `["Tokyo"]`, cleanJSONResponse("Here are the cities:\n```json\n[\"Tokyo\"]\n```\nEnjoy!"))
}

func TestParseCityList(t *testing.T) {
	cities, err := parseCityList(`["Tokyo", "Kyoto", "Osaka"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo", "Kyoto", "Osaka"}, cities)

	cities, err = parseCityList("```json\n[\"Paris\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, cities)

	// Capped at four
	cities, err = parseCityList(`["A","B","C","D","E","F"]`)
	require.NoError(t, err)
	assert.Len(t, cities, 4)

	_, err = parseCityList(`[]`)
	assert.Error(t, err)
	_, err = parseCityList(`I could not decide on any cities.`)
	assert.Error(t, err)
}

func TestParseItinerary(t *testing.T) {
	raw := "```json\n" + `[
  {"day_number": 1, "date": "2026-04-01", "city": "Tokyo",
   "items": [{"start_time": "09:00", "duration_minutes": 120,
              "title": "Senso-ji Temple", "item_type": "attraction",
              "location": "Senso-ji Temple", "cost": 0}]}
]` + "\n```"

	days, err := parseItinerary(raw)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Tokyo", days[0].City)
	require.Len(t, days[0].Items, 1)
	assert.Equal(t, "Senso-ji Temple", days[0].Items[0].Title)

	_, err = parseItinerary(`[]`)
	assert.Error(t, err)
	_, err = parseItinerary(`not json at all`)
	assert.Error(t, err)
}

func TestParseItinerary_TolerantCostShapes(t *testing.T) {
	raw := `[
  {"day_number": 1, "city": "Paris",
   "items": [
     {"title": "Louvre", "cost": "25"},
     {"title": "Walk", "cost": "free"},
     {"title": "Dinner", "cost": null}
   ]}
]`
	days, err := parseItinerary(raw)
	require.NoError(t, err)
	items := days[0].Items
	assert.EqualValues(t, 25, items[0].Cost)
	assert.EqualValues(t, 0, items[1].Cost)
	assert.EqualValues(t, 0, items[2].Cost)
}
