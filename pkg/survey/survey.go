// Package survey combines two partners' self-assessments into focus areas.
package survey

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrDuplicateUser = errors.New("survey: both responses belong to the same user")
	ErrNoAnswers     = errors.New("survey: response has no answers")
	ErrBadDimension  = errors.New("survey: answer dimension is blank")
	ErrScoreRange    = errors.New("survey: score out of range")
)

const defaultFocusCount = 3

// Answer is one scored dimension.
type Answer struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
}

// Response is one user's completed survey.
type Response struct {
	UserID  string   `json:"userId"`
	Answers []Answer `json:"answers"`
}

// Options tune the aggregation. Zero values select defaults.
type Options struct {
	FocusCount int
	// Threshold keeps only dimensions whose average is strictly below it.
	Threshold float64
	MinScore  float64
	MaxScore  float64
}

// DimensionScore summarises one dimension across both users.
type DimensionScore struct {
	Dimension string             `json:"dimension"`
	Average   float64            `json:"average"`
	Gap       float64            `json:"gap"`
	ByUser    map[string]float64 `json:"byUser"`
}

// Result holds every dimension and the selected focus areas.
type Result struct {
	Dimensions []DimensionScore `json:"dimensions"`
	FocusAreas []DimensionScore `json:"focusAreas"`
}

func (o Options) withDefaults() Options {
	if o.FocusCount <= 0 {
		o.FocusCount = defaultFocusCount
	}
	if o.MinScore == 0 && o.MaxScore == 0 {
		o.MinScore, o.MaxScore = 1, 10
	}
	return o
}

// Aggregate scores both responses and picks the weakest dimensions.
func Aggregate(a, b Response, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(a.UserID) != "" && a.UserID == b.UserID {
		return nil, ErrDuplicateUser
	}

	perUser := make([]map[string]float64, 0, 2)
	for _, resp := range []Response{a, b} {
		means, err := userMeans(resp, opts)
		if err != nil {
			return nil, err
		}
		perUser = append(perUser, means)
	}

	users := []string{a.UserID, b.UserID}
	dims := map[string]*DimensionScore{}
	for i, means := range perUser {
		for dim, score := range means {
			ds, ok := dims[dim]
			if !ok {
				ds = &DimensionScore{Dimension: dim, ByUser: map[string]float64{}}
				dims[dim] = ds
			}
			ds.ByUser[users[i]] = score
		}
	}

	result := &Result{Dimensions: make([]DimensionScore, 0, len(dims))}
	for dim, ds := range dims {
		sa, okA := perUser[0][dim]
		sb, okB := perUser[1][dim]
		switch {
		case okA && okB:
			ds.Average = (sa + sb) / 2
			ds.Gap = math.Abs(sa - sb)
		case okA:
			ds.Average = sa
		default:
			ds.Average = sb
		}
		result.Dimensions = append(result.Dimensions, *ds)
	}
	sort.Slice(result.Dimensions, func(i, j int) bool {
		return lessFocus(result.Dimensions[i], result.Dimensions[j])
	})

	for _, ds := range result.Dimensions {
		if len(result.FocusAreas) == opts.FocusCount {
			break
		}
		if opts.Threshold > 0 && ds.Average >= opts.Threshold {
			continue
		}
		result.FocusAreas = append(result.FocusAreas, ds)
	}
	return result, nil
}

func userMeans(resp Response, opts Options) (map[string]float64, error) {
	if len(resp.Answers) == 0 {
		return nil, fmt.Errorf("%w: user %q", ErrNoAnswers, resp.UserID)
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, ans := range resp.Answers {
		dim := strings.TrimSpace(ans.Dimension)
		if dim == "" {
			return nil, fmt.Errorf("%w: user %q", ErrBadDimension, resp.UserID)
		}
		if math.IsNaN(ans.Score) || math.IsInf(ans.Score, 0) || ans.Score < opts.MinScore || ans.Score > opts.MaxScore {
			return nil, fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrScoreRange, dim, ans.Score, opts.MinScore, opts.MaxScore)
		}
		sums[dim] += ans.Score
		counts[dim]++
	}
	out := make(map[string]float64, len(sums))
	for dim, sum := range sums {
		out[dim] = sum / float64(counts[dim])
	}
	return out, nil
}

// lessFocus orders by average ascending, gap descending, then name.
func lessFocus(a, b DimensionScore) bool {
	if a.Average != b.Average {
		return a.Average < b.Average
	}
	if a.Gap != b.Gap {
		return a.Gap > b.Gap
	}
	return a.Dimension < b.Dimension
}
