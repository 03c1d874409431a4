package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staffdash/internal/domain"
)

func TestSalesChannels(t *testing.T) {
	info := domain.ProjectsInfo{SalesChannelPercentage: []domain.SalesChannelShare{
		{SalesChannel: "online", Percentage: 50},
		{SalesChannel: "in-person", Percentage: 25},
		{SalesChannel: "other", Percentage: 25},
	}}

	points := SalesChannels(info)
	assert.Equal(t, []Point{
		{Label: "Online", Value: 50},
		{Label: "In Person", Value: 25},
		{Label: "Referral", Value: 0},
		{Label: "Other", Value: 25},
	}, points)
	assert.True(t, HasData(points))
	assert.Equal(t, 100.0, Total(points))
}

func TestSalesChannelsEmpty(t *testing.T) {
	points := SalesChannels(domain.ProjectsInfo{})
	assert.Len(t, points, 4)
	assert.False(t, HasData(points))
}

func TestProjectScope(t *testing.T) {
	points := ProjectScope(domain.ProjectsInfo{ProjectScope: map[string]float64{"Fixed": 8, "OnGoing": 4}})
	assert.Equal(t, []Point{{Label: "Fixed", Value: 8}, {Label: "On-going", Value: 4}}, points)

	assert.False(t, HasData(ProjectScope(domain.ProjectsInfo{})))
}

func TestScale(t *testing.T) {
	points := []Point{{Value: 8}, {Value: 4}, {Value: 0}, {Value: 0.01}}
	assert.Equal(t, []int{20, 10, 0, 1}, Scale(points, 20))
	assert.Equal(t, []int{0, 0}, Scale([]Point{{}, {}}, 20))
}

func TestSharesAddUpToWidth(t *testing.T) {
	points := []Point{{Value: 1}, {Value: 1}, {Value: 1}}
	shares := Shares(points, 40)
	sum := 0
	for _, s := range shares {
		sum += s
	}
	assert.Equal(t, 40, sum)
	assert.Equal(t, []int{14, 13, 13}, shares)

	assert.Equal(t, []int{0, 0}, Shares([]Point{{}, {}}, 10))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33%", Percent(Point{Value: 1}, 3))
	assert.Equal(t, "", Percent(Point{Value: 0}, 3))
}
