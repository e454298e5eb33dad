// import-commodities loads a CSV export of the commodity sheet and upserts it
// into the taxonomy. Expected header: Commodity Name,Variety,Grade,HSN Code.
// The whole file is applied in one transaction; rows without a commodity name
// are skipped.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cold-storage-backend/internal/config"
	"cold-storage-backend/internal/db"
	"cold-storage-backend/internal/taxonomy/domain"
	taxonomyrepo "cold-storage-backend/internal/taxonomy/repository"
	taxonomyservice "cold-storage-backend/internal/taxonomy/service"
)

func main() {
	file := flag.String("file", "", "Path to the commodities CSV export")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import-commodities -file commodities.csv")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	rows, err := readRows(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	svc := taxonomyservice.NewService(taxonomyrepo.NewSQLRepository(conn))
	applied, err := svc.BulkImport(context.Background(), rows)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	log.Printf("Imported %d of %d rows from %s.", applied, len(rows), *file)
}

// readRows parses the CSV into import rows, mapping columns by header name so
// column order in the export does not matter.
func readRows(path string) ([]domain.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	commodityIdx, ok := col["commodity name"]
	if !ok {
		return nil, fmt.Errorf("missing %q column", "Commodity Name")
	}
	varietyIdx, hasVariety := col["variety"]
	gradeIdx, hasGrade := col["grade"]
	hsnIdx, hasHSN := col["hsn code"]

	var rows []domain.ImportRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := domain.ImportRow{Commodity: field(record, commodityIdx)}
		if hasVariety {
			row.Variety = field(record, varietyIdx)
		}
		if hasGrade {
			row.Grade = field(record, gradeIdx)
		}
		if hasHSN {
			row.HSNCode = field(record, hsnIdx)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
