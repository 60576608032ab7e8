package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golife/adapters/bounds"
	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
)

// EstimationMethod selects the parameter estimation strategy
type EstimationMethod string

const (
	EstimateRankRegression EstimationMethod = "rank-regression"
	EstimateMLE            EstimationMethod = "mle"
)

// AnalysisService orchestrates fitting and confidence bound computation
// for a single life dataset
type AnalysisService struct {
	rr     *fit.RankRegression
	mle    *fit.MLE
	fisher *bounds.Fisher
	lr     *bounds.LikelihoodRatio
}

// AnalysisRequest defines the inputs for a deterministic analysis run
type AnalysisRequest struct {
	Dataset         life.Dataset
	Family          life.Family
	Method          EstimationMethod
	BoundMethod     life.BoundMethod
	ConfidenceLevel float64
	QueryTime       float64 // optional, pointwise bound at this time when > 0
	AnalysisID      core.AnalysisID
}

// AnalysisResult contains the complete output of an analysis run
type AnalysisResult struct {
	AnalysisID  core.AnalysisID  `json:"analysis_id"`
	Family      life.Family      `json:"family"`
	Method      EstimationMethod `json:"method"`
	Fit         life.FitResult   `json:"fit"`
	Bounds      *life.BoundSet   `json:"bounds,omitempty"`
	ParamBounds life.ParamBounds `json:"param_bounds"`
	CompletedAt core.Timestamp   `json:"completed_at"`
	RuntimeMs   int64            `json:"runtime_ms"`
}

// FamilyRanking reports how well one family fits relative to the others
type FamilyRanking struct {
	Family        life.Family    `json:"family"`
	Fit           life.FitResult `json:"fit"`
	LogLikelihood float64        `json:"log_likelihood"`
}

// NewAnalysisService creates an analysis service with default engines
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{
		rr:     fit.NewRankRegression(),
		mle:    fit.NewMLE(),
		fisher: bounds.NewFisher(),
		lr:     bounds.NewLikelihoodRatio(),
	}
}

// Run executes a fit and, when a confidence level is set, the matching
// confidence bounds
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	startTime := time.Now()

	analysisID := req.AnalysisID
	if analysisID == "" {
		analysisID = core.NewAnalysisID()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fitResult, err := s.runFit(req)
	if err != nil {
		return nil, fmt.Errorf("fit failed: %w", err)
	}

	result := &AnalysisResult{
		AnalysisID: analysisID,
		Family:     req.Family,
		Method:     req.Method,
		Fit:        fitResult,
	}

	if req.ConfidenceLevel > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		boundSet, paramBounds, err := s.runBounds(req, fitResult.Parameters)
		if err != nil {
			return nil, fmt.Errorf("bounds failed: %w", err)
		}
		result.Bounds = boundSet
		result.ParamBounds = paramBounds
	}

	result.CompletedAt = core.Now()
	result.RuntimeMs = time.Since(startTime).Milliseconds()
	return result, nil
}

func (s *AnalysisService) runFit(req AnalysisRequest) (life.FitResult, error) {
	switch req.Method {
	case EstimateRankRegression:
		return s.rr.Fit(req.Dataset, req.Family)
	case EstimateMLE, "":
		return s.mle.Fit(req.Dataset, req.Family)
	default:
		return life.FitResult{}, core.NewDomainErrorf("method", "unknown estimation method %q", req.Method)
	}
}

func (s *AnalysisService) runBounds(req AnalysisRequest, p life.Params) (*life.BoundSet, life.ParamBounds, error) {
	var (
		set life.BoundSet
		err error
	)
	switch req.BoundMethod {
	case life.MethodFisher, "":
		if req.QueryTime > 0 {
			set, err = s.fisher.CurveBoundsAt(req.Dataset, p, req.ConfidenceLevel, req.QueryTime)
		} else {
			set, err = s.fisher.CurveBounds(req.Dataset, p, req.ConfidenceLevel)
		}
	case life.MethodLikelihoodRatio:
		if req.QueryTime > 0 {
			set, err = s.lr.CurveBoundsAt(req.Dataset, p, req.ConfidenceLevel, req.QueryTime)
		} else {
			set, err = s.lr.CurveBounds(req.Dataset, p, req.ConfidenceLevel)
		}
	default:
		return nil, life.ParamBounds{}, core.NewDomainErrorf("bound_method", "unknown bound method %q", req.BoundMethod)
	}
	if err != nil {
		return nil, life.ParamBounds{}, err
	}

	// Parameter intervals always come from the Fisher matrix; the
	// likelihood-ratio method bounds the curve, not the parameters.
	paramBounds, err := s.fisher.ParamBounds(req.Dataset, p, req.ConfidenceLevel)
	if err != nil {
		return nil, life.ParamBounds{}, err
	}
	return &set, paramBounds, nil
}

// RankFamilies fits every family with the requested method and orders the
// results by log-likelihood, best first. Families whose fit fails are
// skipped; an error is returned only when no family fits at all.
func (s *AnalysisService) RankFamilies(ctx context.Context, ds life.Dataset, method EstimationMethod) ([]FamilyRanking, error) {
	var rankings []FamilyRanking
	var lastErr error
	for _, family := range life.Families() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fitResult, err := s.runFit(AnalysisRequest{Dataset: ds, Family: family, Method: method})
		if err != nil {
			lastErr = fmt.Errorf("family %s: %w", family, err)
			continue
		}
		ll := fitResult.LogLikelihood
		if method == EstimateRankRegression {
			if v, err := s.mle.LogLikelihood(ds, fitResult.Parameters); err == nil {
				ll = v
			}
		}
		rankings = append(rankings, FamilyRanking{
			Family:        family,
			Fit:           fitResult,
			LogLikelihood: ll,
		})
	}
	if len(rankings) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no family could be fitted: %w", lastErr)
		}
		return nil, core.NewIncompatibleInputError("no family could be fitted")
	}
	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].LogLikelihood > rankings[j].LogLikelihood
	})
	return rankings, nil
}
