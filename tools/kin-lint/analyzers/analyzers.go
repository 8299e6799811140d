// Package analyzers provides the custom static analyzers for kinship.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/kinship/tools/kin-lint/analyzers/guardcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		guardcall.Analyzer,
	}
}
