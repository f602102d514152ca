package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"maestro/pkg/report"
	"maestro/pkg/rules"
	"maestro/pkg/specification"
)

var (
	numRows    int
	iterations int
)

func init() {
	flag.IntVar(&numRows, "rows", 100000, "Number of synthetic report rows")
	flag.IntVar(&iterations, "iterations", 10, "Number of filter passes to time")
	flag.Parse()
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Generating synthetic report with %d rows\n", numRows)
	rep := generateReport(numRows)

	parser := rules.NewParser(rules.DefaultSourceType)
	ruleSet, err := parser.ParseStrings([]string{
		"clicks > 1000",
		"ctr < 0.001, impressions > 50000",
		"placement regexp '.*games.*'",
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to parse rules: %v", err))
	}

	spec, err := specification.FromRuleSet(ruleSet, specification.DefaultRegistry())
	if err != nil {
		panic(fmt.Sprintf("Failed to build specification: %v", err))
	}

	var total time.Duration
	var excluded int
	for i := 0; i < iterations; i++ {
		start := time.Now()
		filtered, err := specification.Filter(spec, rep)
		if err != nil {
			panic(fmt.Sprintf("Filter failed: %v", err))
		}
		elapsed := time.Since(start)
		total += elapsed
		excluded = filtered.Len()
		fmt.Printf("Pass %d: %d rows excluded in %v\n", i+1, excluded, elapsed)
	}

	average := total / time.Duration(iterations)
	fmt.Printf("Average pass: %v (%.0f rows/sec, %d excluded)\n",
		average, float64(numRows)/average.Seconds(), excluded)
}

func generateReport(n int) *report.Report {
	rows := make([][]interface{}, n)
	for i := range rows {
		clicks := rand.Intn(2000)
		impressions := clicks + rand.Intn(200000)
		var ctr float64
		if impressions > 0 {
			ctr = float64(clicks) / float64(impressions)
		}
		rows[i] = []interface{}{
			gofakeit.DomainName(),
			clicks,
			impressions,
			ctr,
		}
	}

	rep, err := report.New([]string{"placement", "clicks", "impressions", "ctr"}, rows)
	if err != nil {
		panic(fmt.Sprintf("Failed to build report: %v", err))
	}
	return rep
}
