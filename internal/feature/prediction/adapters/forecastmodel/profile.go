package forecastmodel

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"stock_predictor/internal/feature/prediction/domain/entity"
)

// profileEpoch is a Sunday, so index i of a daily grid from here has weekday i%7.
var profileEpoch = time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

const profileDays = 365

// fitProfiles evaluates the fitted seasonal sum over one reference year and
// separates it into a weekly profile (7 points, Sunday first) and a yearly
// profile (365 points).
func (m *Model) fitProfiles() error {
	m.weekly, m.profiles = nil, nil
	if len(m.seasonalities) == 0 {
		return nil
	}

	grid := make([]time.Time, profileDays)
	for i := range grid {
		grid[i] = profileEpoch.AddDate(0, 0, i)
	}
	res, err := m.f.Predict(grid)
	if err != nil {
		return err
	}
	seasonal := make([]float64, profileDays)
	for i := range seasonal {
		seasonal[i] = valueAt(res.SeriesComponents.Seasonality, i)
	}

	hasWeekly, hasYearly := m.has(entity.SeasonalityWeekly), m.has(entity.SeasonalityYearly)
	switch {
	case hasWeekly && hasYearly:
		m.weekly = weekdayProfile(seasonal)
	case hasWeekly:
		m.weekly = append([]float64(nil), seasonal[:7]...)
	}

	if hasYearly {
		yearly := make([]float64, profileDays)
		for i, v := range seasonal {
			yearly[i] = v
			if m.weekly != nil {
				yearly[i] -= m.weekly[i%7]
			}
		}
		m.profiles = append(m.profiles, entity.SeasonalProfile{Name: entity.SeasonalityYearly, DS: grid, Values: yearly})
	}
	if m.weekly != nil {
		m.profiles = append(m.profiles, entity.SeasonalProfile{
			Name:   entity.SeasonalityWeekly,
			DS:     append([]time.Time(nil), grid[:7]...),
			Values: append([]float64(nil), m.weekly...),
		})
	}
	return nil
}

// weekdayProfile averages a daily series starting on a Sunday by weekday over
// whole weeks and removes the overall mean. Over 52 weeks the yearly terms
// average out, leaving the weekly cycle.
func weekdayProfile(daily []float64) []float64 {
	weeks := len(daily) / 7
	out := make([]float64, 7)
	if weeks == 0 {
		return out
	}
	col := make([]float64, weeks)
	for wd := range out {
		for w := 0; w < weeks; w++ {
			col[w] = daily[w*7+wd]
		}
		out[wd] = stat.Mean(col, nil)
	}
	floats.AddConst(-stat.Mean(out, nil), out)
	return out
}

// split attributes a point's seasonal sum to the weekly and yearly terms.
func (m *Model) split(d time.Time, seasonal float64) (weekly, yearly float64) {
	switch {
	case m.weekly != nil && m.has(entity.SeasonalityYearly):
		weekly = m.weekly[d.Weekday()]
		return weekly, seasonal - weekly
	case m.weekly != nil:
		return seasonal, 0
	case m.has(entity.SeasonalityYearly):
		return 0, seasonal
	}
	return 0, 0
}
