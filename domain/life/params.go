package life

import (
	"golife/domain/core"
)

// Family identifies a life-distribution family
type Family string

const (
	FamilyWeibull     Family = "weibull"
	FamilyLognormal   Family = "lognormal"
	FamilyNormal      Family = "normal"
	FamilyExponential Family = "exponential"
	FamilyLoglogistic Family = "loglogistic"
	FamilyGumbel      Family = "gumbel" // smallest extreme value
)

// Families lists every supported family in a stable order.
func Families() []Family {
	return []Family{
		FamilyWeibull,
		FamilyLognormal,
		FamilyNormal,
		FamilyExponential,
		FamilyLoglogistic,
		FamilyGumbel,
	}
}

// Params holds one family's fitted parameter pair. The two slots follow the
// reliability convention of (dispersion, central):
//
//	Weibull:     Shape = β          Scale = η (characteristic life)
//	Lognormal:   Shape = σ (log)    Scale = μ (log mean)
//	Normal:      Shape = σ          Scale = μ
//	Exponential: Shape unused       Scale = mean life (1/λ)
//	Loglogistic: Shape = β          Scale = α
//	Gumbel:      Shape = σ          Scale = μ (location)
//
// Immutable once computed; fit code always builds a fresh value.
type Params struct {
	Family Family  `json:"family"`
	Shape  float64 `json:"shape,omitempty"`
	Scale  float64 `json:"scale"`
}

// NewWeibullParams builds validated Weibull parameters.
func NewWeibullParams(beta, eta float64) (Params, error) {
	p := Params{Family: FamilyWeibull, Shape: beta, Scale: eta}
	return p, p.Validate()
}

// NewExponentialParams builds validated exponential parameters from a mean life.
func NewExponentialParams(meanLife float64) (Params, error) {
	p := Params{Family: FamilyExponential, Scale: meanLife}
	return p, p.Validate()
}

// MustParams panics on invalid parameters.
// Use only in tests and development - production code should handle validation errors
func MustParams(p Params) Params {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}

// Dim returns the number of free parameters for the family.
func (p Params) Dim() int {
	if p.Family == FamilyExponential {
		return 1
	}
	return 2
}

// Validate checks the family-specific parameter domain.
func (p Params) Validate() error {
	switch p.Family {
	case FamilyWeibull, FamilyLoglogistic:
		if p.Shape <= 0 {
			return core.NewDomainErrorf("shape", "must be > 0, got %g", p.Shape)
		}
		if p.Scale <= 0 {
			return core.NewDomainErrorf("scale", "must be > 0, got %g", p.Scale)
		}
	case FamilyLognormal:
		if p.Shape <= 0 {
			return core.NewDomainErrorf("sigma", "must be > 0, got %g", p.Shape)
		}
		// Scale is the log mean and may take any sign.
	case FamilyNormal, FamilyGumbel:
		if p.Shape <= 0 {
			return core.NewDomainErrorf("sigma", "must be > 0, got %g", p.Shape)
		}
	case FamilyExponential:
		if p.Scale <= 0 {
			return core.NewDomainErrorf("mean life", "must be > 0, got %g", p.Scale)
		}
	default:
		return core.NewDomainErrorf("family", "unknown %q", p.Family)
	}
	return nil
}
