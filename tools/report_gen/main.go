package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"maestro/pkg/report"
)

var reportColumns = []string{
	"placement", "placement_type", "name", "customer_id", "ad_group_id",
	"campaign_id", "clicks", "impressions", "cost", "conversions", "ctr",
}

var placementTypes = []string{
	"WEBSITE", "MOBILE_APPLICATION", "YOUTUBE_VIDEO", "YOUTUBE_CHANNEL",
}

func generatePlacement(placementType string) string {
	switch placementType {
	case "MOBILE_APPLICATION":
		store := []string{"1", "2"}[rand.Intn(2)]
		return fmt.Sprintf("mobileapp::1000%s-%s", store, gofakeit.DomainName())
	case "YOUTUBE_VIDEO":
		return gofakeit.LetterN(11)
	case "YOUTUBE_CHANNEL":
		return "UC" + gofakeit.LetterN(22)
	default:
		return gofakeit.DomainName()
	}
}

func generateRow() []interface{} {
	placementType := placementTypes[rand.Intn(len(placementTypes))]
	clicks := rand.Intn(5000)
	impressions := clicks + rand.Intn(100000)

	var ctr float64
	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions)
	}

	return []interface{}{
		generatePlacement(placementType),
		placementType,
		gofakeit.Company(),
		fmt.Sprintf("%d", gofakeit.Number(1000000000, 9999999999)),
		gofakeit.Number(10000, 99999),
		gofakeit.Number(10000, 99999),
		clicks,
		impressions,
		gofakeit.Float64Range(0, 10000),
		gofakeit.Number(0, 500),
		ctr,
	}
}

func generateReport(numRows int) (*report.Report, error) {
	rows := make([][]interface{}, numRows)
	for i := range rows {
		rows[i] = generateRow()
	}
	return report.New(reportColumns, rows)
}

func parseFlags(args []string) (int, string) {
	flagSet := flag.NewFlagSet("report_gen", flag.ExitOnError)
	numRows := flagSet.Int("rows", 1000, "Number of report rows to generate")
	outputFile := flagSet.String("output", "generated_report.json", "Output file name")
	flagSet.Parse(args)
	return *numRows, *outputFile
}

func main() {
	numRows, outputFile := parseFlags(os.Args[1:])

	gofakeit.Seed(time.Now().UnixNano())

	rep, err := generateReport(numRows)
	if err != nil {
		fmt.Printf("Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := rep.SaveJSON(outputFile); err != nil {
		fmt.Printf("Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated report with %d rows. Saved to %s\n", numRows, outputFile)
}
