// kin-lint checks kinship storage code for statements that bypass the connection guard.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/kinship/tools/kin-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
