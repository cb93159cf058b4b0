// Command genseed generates a seed CSV fixture with realistic shipments for
// local development and load testing. A fixed -seed makes the output
// reproducible.
//
// Usage:
//
//	go run ./cmd/genseed -out data/seed.csv -rows 1000
//	go run ./cmd/genseed -out data/seed.csv -rows 50000 -seed 7 -multi-article
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

var cities = []struct {
	zip     string
	city    string
	country string
}{
	{"10115", "Berlin", "Germany"},
	{"75001", "Paris", "France"},
	{"28013", "Madrid", "Spain"},
	{"00184", "Rome", "Italy"},
	{"1016", "Amsterdam", "Netherlands"},
	{"1100", "Vienna", "Austria"},
	{"2100", "Copenhagen", "Denmark"},
	{"11152", "Stockholm", "Sweden"},
}

var products = []struct {
	name  string
	price string
}{
	{"Laptop", "999.00"},
	{"Monitor", "249.50"},
	{"Keyboard", "49.99"},
	{"Mouse", "29.99"},
	{"Headphones", "89.90"},
	{"Webcam", "59.00"},
	{"USB Hub", "19.99"},
	{"Desk Lamp", "34.50"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the seed CSV")
	rows := flag.Int("rows", 1000, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	multiArticle := flag.Bool("multi-article", false, "emit extra rows so some shipments carry several articles")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := csv.NewWriter(f)

	if err := w.Write(domain.RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	written := 0
	for i := 0; written < *rows; i++ {
		trackingNumber := fmt.Sprintf("TN%08d", i+1)
		carrier := domain.KnownCarriers[rng.Intn(len(domain.KnownCarriers))]
		status := domain.KnownStatuses[rng.Intn(len(domain.KnownStatuses))]
		sender := address(rng)
		receiver := address(rng)

		// Every shipment gets at least one article; with -multi-article a
		// third of them get a second row under the same tracking number.
		articles := 1
		if *multiArticle && rng.Intn(3) == 0 {
			articles = 2
		}
		for a := 0; a < articles && written < *rows; a++ {
			p := products[rng.Intn(len(products))]
			row := []string{
				trackingNumber,
				carrier,
				sender,
				receiver,
				status,
				p.name,
				fmt.Sprintf("%d", 1+rng.Intn(5)),
				p.price,
				fmt.Sprintf("SKU-%08d-%d", i+1, a+1),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			written++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	fmt.Printf("wrote %d rows to %s\n", written, *out)
	return nil
}

func address(rng *rand.Rand) string {
	c := cities[rng.Intn(len(cities))]
	return fmt.Sprintf("Street %d, %s %s, %s", 1+rng.Intn(200), c.zip, c.city, c.country)
}
