package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// File is the JSON serialization envelope for a population. People appear in
// insertion order, so output is deterministic for a fixed snapshot.
type File struct {
	People []Person `json:"people"`
}

// MarshalPopulation converts a population to indented JSON bytes.
func MarshalPopulation(pop *Population) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePopulation(pop, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePopulation writes a population as JSON to an io.Writer.
func WritePopulation(pop *Population, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(File{People: pop.People()}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePopulationFile writes a population to a JSON file.
// The file is created with 0644 permissions.
func WritePopulationFile(pop *Population, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePopulation(pop, f)
}

// ReadPopulation decodes a JSON population from an io.Reader.
// Duplicate or empty ids are rejected.
func ReadPopulation(r io.Reader) (*Population, error) {
	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromPeople(file.People)
}

// ReadPopulationFile reads a JSON file and returns the decoded population.
func ReadPopulationFile(path string) (*Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPopulation(f)
}
