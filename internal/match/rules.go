// Package match classifies statement-pair similarity results into ordered
// match tiers using a rule table of boolean metric conditions.
package match

import "github.com/rkarpau/veritext/internal/model"

// Metric names one dimension of the scorer's similarity vector.
type Metric int

const (
	MetricTFIDF Metric = iota
	MetricEuclidean
	MetricManhattan
	MetricDomain
	MetricOverlap
	MetricKeywordOverlap
)

// Op is a comparison operator for threshold conditions.
type Op int

const (
	GTE Op = iota
	LTE
)

// Expr is a boolean condition over a comparison result's metrics. The tier
// table combines comparisons with And/Or; combined_score and confidence are
// deliberately not addressable here because the tier gates own them.
type Expr interface {
	Eval(r model.ComparisonResult) bool
}

// And is satisfied when every child is.
type And []Expr

func (a And) Eval(r model.ComparisonResult) bool {
	for _, e := range a {
		if !e.Eval(r) {
			return false
		}
	}
	return true
}

// Or is satisfied when at least one child is.
type Or []Expr

func (o Or) Eval(r model.ComparisonResult) bool {
	for _, e := range o {
		if e.Eval(r) {
			return true
		}
	}
	return false
}

// Cmp compares one metric against a threshold.
type Cmp struct {
	Metric    Metric
	Op        Op
	Threshold float64
}

func (c Cmp) Eval(r model.ComparisonResult) bool {
	v := metricValue(r, c.Metric)
	if c.Op == LTE {
		return v <= c.Threshold
	}
	return v >= c.Threshold
}

func metricValue(r model.ComparisonResult, m Metric) float64 {
	switch m {
	case MetricTFIDF:
		return r.Metrics.TFIDF
	case MetricEuclidean:
		return r.Metrics.Euclidean
	case MetricManhattan:
		return r.Metrics.Manhattan
	case MetricDomain:
		return r.Metrics.Domain
	case MetricOverlap:
		return r.OverlapPercent
	case MetricKeywordOverlap:
		return r.KeywordOverlap()
	}
	return 0
}
