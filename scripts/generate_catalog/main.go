package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/model"
)

// Writes the built-in catalogue as a JSON array for the file and s3
// catalogue sources. Paths ending in .gz are gzip-compressed.
func main() {
	out := flag.String("out", "data/catalog.json.gz", "output file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := catalog.DefaultProducts()
	if err := writeCatalog(*out, products); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(products))
}

func writeCatalog(path string, products []model.Product) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(file)
		defer gz.Close()
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(products)
}
