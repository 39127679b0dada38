// Command propkit-vet runs the propkit annotation checks as a vet tool:
//
//	go vet -vettool=$(which propkit-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/conduit-lang/propkit/internal/vet"
)

func main() {
	singlechecker.Main(vet.Analyzer)
}
