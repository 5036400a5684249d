//go:build ignore

// Emits a deterministic NDJSON stream of typed file records, handy for
// demoing and benchmarking the table command:
//
//	go run scripts/generate_sample.go | mdtable table
package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"
	"time"
)

type fileRecord struct {
	Type    string    `json:"_type"`
	Name    string    `json:"Name"`
	Length  int       `json:"Length"`
	Mode    string    `json:"Mode"`
	ModTime time.Time `json:"LastWriteTime"`
	Tags    []string  `json:"Tags,omitempty"`
}

func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	exts := []string{".go", ".md", ".yaml", ".txt", ".json"}
	modes := []string{"-rw-r--r--", "-rwxr-xr-x", "drwxr-xr-x"}

	const total = 200
	base := time.Now().UTC()

	enc := json.NewEncoder(os.Stdout)
	for i := 0; i < total; i++ {
		rec := fileRecord{
			Type:    "FileInfo",
			Name:    fmt.Sprintf("sample-%03d%s", i+1, exts[mr.Intn(len(exts))]),
			Length:  mr.Intn(1 << 20),
			Mode:    modes[mr.Intn(len(modes))],
			ModTime: base.Add(-time.Duration(30*i+mr.Intn(60)) * time.Minute),
		}
		if mr.Float64() < 0.3 {
			rec.Tags = []string{"generated", fmt.Sprintf("batch%d", i%4)}
		}
		if err := enc.Encode(rec); err != nil {
			panic(err)
		}
	}
}
