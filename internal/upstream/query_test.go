package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEncode(t *testing.T) {
	assert.Equal(t, "act=webGetLines", NewQuery(ActGetLines).Encode())
	assert.Equal(t, "act=getStopArrivals&p1=10001", NewQuery(ActGetStopArrivals, "10001").Encode())
	assert.Equal(t, "act=getDailySchedule&p1=962&p2=1", NewQuery("getDailySchedule", "962", "1").Encode())
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("act=getStopsForRoute&p1=2045")
	require.NoError(t, err)
	assert.Equal(t, Query{Act: ActGetStopsForRoute, P1: "2045"}, q)

	q, err = ParseQuery("?act=webGetLines")
	require.NoError(t, err)
	assert.Equal(t, ActGetLines, q.Act)

	_, err = ParseQuery("act=deleteEverything")
	assert.ErrorIs(t, err, ErrUnknownAct)

	_, err = ParseQuery("p1=2045")
	assert.Error(t, err)

	_, err = ParseQuery("act=getBusLocation&p1=<script>")
	assert.Error(t, err)
}

func TestStopsVariantsOrder(t *testing.T) {
	variants := StopsVariants("2045")
	require.Len(t, variants, 4)
	assert.Equal(t, []Act{ActGetStopsForRoute, ActWebGetStops, ActWebGetStopsForRoute, ActGetStops},
		[]Act{variants[0].Act, variants[1].Act, variants[2].Act, variants[3].Act})
	for _, v := range variants {
		assert.Equal(t, "2045", v.P1)
	}
}
