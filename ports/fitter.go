package ports

import (
	"golife/domain/life"
)

// Fitter estimates distribution parameters from a life dataset.
// Both the rank-regression and maximum-likelihood estimators satisfy this,
// so bound calculators and the Monte Carlo engine can take either.
type Fitter interface {
	Fit(ds life.Dataset, family life.Family) (life.FitResult, error)
}
