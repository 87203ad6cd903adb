package importer

import (
	"io"

	"github.com/vivaahaverse/vivaah/internal/expense"
)

// Format names a supported expense file layout family.
type Format string

const (
	FormatSheet Format = "sheet"
)

type Importer interface {
	Parse(r io.Reader) ([]expense.CreateParams, error)
}
