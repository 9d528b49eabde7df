// Command staticlint runs the analyzers this project is checked with.
//
// Build and run:
//
//	go build -o staticlint ./cmd/staticlint
//	./staticlint ./...
//
// Included analyzers:
//
//   - a selection of golang.org/x/tools/go/analysis/passes: the vet set
//     plus shadow, nilness and unusedwrite;
//   - every staticcheck SA* check (honnef.co/go/tools/staticcheck);
//   - stylecheck ST1000, which requires a package comment;
//   - nilerr (github.com/gostaticanalysis/nilerr), which reports a nil
//     error returned from an "if err != nil" branch;
//   - bodyclose (github.com/timakin/bodyclose), which checks that every
//     http.Response.Body is closed;
//   - noinsecuretls, which forbids a constant InsecureSkipVerify: true.
package main

import (
	"strings"

	"github.com/and161185/gamestate-exporter/internal/analyzers/noinsecuretls"
	"github.com/gostaticanalysis/nilerr"
	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		assign.Analyzer, atomic.Analyzer, bools.Analyzer, composite.Analyzer, copylock.Analyzer,
		errorsas.Analyzer, httpresponse.Analyzer, loopclosure.Analyzer, lostcancel.Analyzer,
		nilfunc.Analyzer, nilness.Analyzer, printf.Analyzer, shadow.Analyzer, sigchanyzer.Analyzer,
		stdmethods.Analyzer, structtag.Analyzer, tests.Analyzer, unmarshal.Analyzer,
		unreachable.Analyzer, unusedresult.Analyzer, unusedwrite.Analyzer,

		nilerr.Analyzer,
		bodyclose.Analyzer,
		noinsecuretls.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range stylecheck.Analyzers {
		if a.Analyzer.Name == "ST1000" {
			list = append(list, a.Analyzer)
		}
	}
	return list
}

func main() {
	multichecker.Main(analyzers()...)
}
