package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/textpatch/pkg/config"
)

func main() {
	output := flag.String("o", "schema/textpatch.schema.json", "output path")
	flag.Parse()

	data, err := config.SchemaJSON()
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated textpatch schema at %s", *output)
}
