// Package charts shapes the dashboard's summary numbers into the series the
// home screen draws.
package charts

import (
	"math"
	"strconv"
	"strings"

	"staffdash/internal/domain"
)

// Point is one labelled value of a series
type Point struct {
	Label string
	Value float64
}

// salesChannels lists the chart slices in display order with every spelling the
// API has used for them
var salesChannels = []struct {
	label   string
	aliases []string
}{
	{"Online", []string{"online"}},
	{"In Person", []string{"in-person", "inperson", "in person"}},
	{"Referral", []string{"referral"}},
	{"Other", []string{"other"}},
}

// SalesChannels returns the four sales channel slices. Missing channels are 0.
func SalesChannels(info domain.ProjectsInfo) []Point {
	byName := map[string]float64{}
	for _, share := range info.SalesChannelPercentage {
		byName[strings.ToLower(strings.TrimSpace(share.SalesChannel))] += share.Percentage
	}

	out := make([]Point, len(salesChannels))
	for i, ch := range salesChannels {
		out[i].Label = ch.label
		for _, alias := range ch.aliases {
			out[i].Value += byName[alias]
		}
	}
	return out
}

// ProjectScope returns the Fixed and On-going bars
func ProjectScope(info domain.ProjectsInfo) []Point {
	return []Point{
		{Label: "Fixed", Value: info.ProjectScope[string(domain.ProjectTypeFixed)]},
		{Label: "On-going", Value: info.ProjectScope[string(domain.ProjectTypeOnGoing)]},
	}
}

// HasData reports whether any point is non-zero. Empty series are not drawn.
func HasData(points []Point) bool {
	for _, p := range points {
		if p.Value != 0 {
			return true
		}
	}
	return false
}

// Scale maps each value onto [0, width] relative to the largest one. Non-zero
// values always get at least one cell.
func Scale(points []Point, width int) []int {
	out := make([]int, len(points))
	if width <= 0 {
		return out
	}
	var max float64
	for _, p := range points {
		max = math.Max(max, p.Value)
	}
	if max <= 0 {
		return out
	}
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		n := int(math.Round(p.Value / max * float64(width)))
		if n < 1 {
			n = 1
		}
		out[i] = n
	}
	return out
}

// Shares splits width between the points in proportion to their values,
// handing rounding leftovers to the largest remainders so the parts always
// add up to width.
func Shares(points []Point, width int) []int {
	out := make([]int, len(points))
	var total float64
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total == 0 || width <= 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(points))
	used := 0
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		exact := p.Value / total * float64(width)
		out[i] = int(exact)
		used += out[i]
		rems = append(rems, rem{i, exact - float64(out[i])})
	}
	for left := width - used; left > 0 && len(rems) > 0; left-- {
		best := 0
		for j := range rems {
			if rems[j].frac > rems[best].frac {
				best = j
			}
		}
		if rems[best].frac < 0 {
			break
		}
		out[rems[best].idx]++
		rems[best].frac = -1
	}
	return out
}

// Percent formats a share the way the pie labels do: whole percent, blank for 0
func Percent(p Point, total float64) string {
	if total <= 0 || p.Value == 0 {
		return ""
	}
	return strconv.Itoa(int(math.Round(p.Value/total*100))) + "%"
}

// Total sums the series
func Total(points []Point) float64 {
	var t float64
	for _, p := range points {
		t += p.Value
	}
	return t
}
