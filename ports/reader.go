package ports

import (
	"golife/domain/life"
)

// DatasetReader loads a life dataset from an external source (spreadsheet,
// CSV). The reader owns parsing only; validation lives in the domain
// constructors it calls.
type DatasetReader interface {
	Read(path string) (life.Dataset, error)
}
