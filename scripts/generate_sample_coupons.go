package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Writes a sample gzipped JSON-lines seed file with a few coupon
// definitions, matching the format the SEED_FILES importer expects.
func main() {
	dataDir := "data/seed"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	expiration := time.Now().AddDate(1, 0, 0).UTC().Format(time.RFC3339)

	coupons := []map[string]interface{}{
		{
			"code":            "SUMMER30",
			"expiration_date": expiration,
			"max_uses":        500,
			"min_value":       100,
			"discount_type":   "percentual",
			"discount_amount": 30,
			"public":          true,
			"first_purchase":  false,
		},
		{
			"code":            "WELCOME10",
			"expiration_date": expiration,
			"max_uses":        1000,
			"min_value":       50,
			"discount_type":   "fixo",
			"discount_amount": 10,
			"public":          false,
			"first_purchase":  true,
		},
		{
			"code":            "VIP50",
			"expiration_date": expiration,
			"max_uses":        25,
			"min_value":       500,
			"discount_type":   "fixo",
			"discount_amount": 50,
			"public":          true,
			"first_purchase":  false,
		},
	}

	filePath := filepath.Join(dataDir, "coupons.jsonl.gz")

	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, coupon := range coupons {
		if err := encoder.Encode(coupon); err != nil {
			log.Fatalf("Failed to write coupon definition: %v", err)
		}
	}

	fmt.Printf("Wrote %d coupon definitions to %s\n", len(coupons), filePath)
}
