package vaccinations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return today.AddDate(0, 0, offset) }

func TestNormalize_PastExpiryForcesExpired(t *testing.T) {
	r := Normalize(Record{VaccinationDate: day(-400), ExpiryDate: day(-10), Expired: false}, today)
	assert.True(t, r.Expired)
}

func TestNormalize_NeverRevertsExpired(t *testing.T) {
	r := Normalize(Record{ExpiryDate: day(100), Expired: true}, today)
	assert.True(t, r.Expired, "a plain save keeps expired=true")

	r = Normalize(Record{ExpiryDate: day(100), Expired: false}, today)
	assert.False(t, r.Expired)
}

func TestNormalize_ExpiryTodayIsNotExpired(t *testing.T) {
	r := Normalize(Record{ExpiryDate: today}, today)
	assert.False(t, r.Expired)
	assert.False(t, IsDue(r, today))
}

func TestDaysUntilExpiry(t *testing.T) {
	assert.Equal(t, 0, DaysUntilExpiry(Record{ExpiryDate: day(20), Expired: true}, today))
	assert.Equal(t, 20, DaysUntilExpiry(Record{ExpiryDate: day(20)}, today))
	assert.Equal(t, -1, DaysUntilExpiry(Record{ExpiryDate: day(-1)}, today), "flag not yet caught up by the sweep")
}

func TestIsExpiringSoon(t *testing.T) {
	assert.True(t, IsExpiringSoon(Record{ExpiryDate: day(30)}, today, 30))
	assert.False(t, IsExpiringSoon(Record{ExpiryDate: day(31)}, today, 30))
	assert.False(t, IsExpiringSoon(Record{ExpiryDate: day(5), Expired: true}, today, 30))
}

func TestBuildOverview(t *testing.T) {
	records := []Record{
		{ID: "e1", ExpiryDate: day(-3), Expired: true},
		{ID: "a1", Name: "Rabies", ExpiryDate: day(25)},
		{ID: "a2", Name: "Parvo", ExpiryDate: day(3)},
		{ID: "a3", Name: "Lepto", ExpiryDate: day(200)},
		{ID: "a4", Name: "Bordetella", ExpiryDate: day(10)},
		{ID: "a5", Name: "Distemper", ExpiryDate: day(12)},
	}

	ov := BuildOverview(records, today, 30)

	assert.Equal(t, 6, ov.Summary.Total)
	assert.Equal(t, 1, ov.Summary.Expired)
	assert.Equal(t, 5, ov.Summary.Active)
	assert.Equal(t, 4, ov.Summary.ExpiringSoon)
	assert.True(t, ov.HasExpired())

	require.Len(t, ov.Upcoming, UpcomingLimit)
	assert.Equal(t, "a2", ov.Upcoming[0].ID)
	assert.Equal(t, 3, ov.Upcoming[0].DaysUntilExpiry)
	assert.Equal(t, "a4", ov.Upcoming[1].ID)
	assert.Equal(t, "a5", ov.Upcoming[2].ID)
}

func TestBuildOverview_Empty(t *testing.T) {
	ov := BuildOverview(nil, today, 30)
	assert.Zero(t, ov.Summary.Total)
	assert.False(t, ov.HasExpired())
	assert.Empty(t, ov.Upcoming)
}
