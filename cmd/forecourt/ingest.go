// Ingest command: load source records from a JSONL file into the store.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// ingestRecord is one line of an ingest file. Each record contributes one
// source's view of one listing; attributes merge into any listing already
// stored under the same id.
type ingestRecord struct {
	ListingID  string         `json:"listing_id,omitempty"`
	Source     string         `json:"source"`
	Confidence string         `json:"confidence,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load listing records from a JSONL file",
	Long: `Ingest reads one JSON record per line and merges each into the store.
Records naming an existing listing_id add their source's values to that
listing; records without one create a new listing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(args[0])
	},
}

func runIngest(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ingest file: %w", err)
	}
	defer f.Close()

	listings, err := store.Listings()
	if err != nil {
		return err
	}

	var ingested, skipped int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec ingestRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed record",
				zap.Int("line", lineNum), zap.Error(err))
			skipped++
			continue
		}
		if rec.Source == "" || len(rec.Attributes) == 0 {
			logger.Warn("skipping incomplete record", zap.Int("line", lineNum))
			skipped++
			continue
		}

		if err := applyRecord(listings, rec); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		ingested++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ingest file: %w", err)
	}

	fmt.Printf("Ingested %d records (%d skipped)\n", ingested, skipped)
	return nil
}

// applyRecord merges one source record into the store.
func applyRecord(listings types.ListingTable, rec ingestRecord) error {
	var l *types.Listing
	if rec.ListingID != "" {
		existing, err := listings.Get(rec.ListingID)
		switch {
		case err == nil:
			l = existing
		case errors.Is(err, types.ErrNotFound):
			l = types.NewListingWithID(rec.ListingID)
		default:
			return err
		}
	} else {
		l = types.NewListing()
	}

	confidence := types.ConfidenceMedium
	if rec.Confidence != "" {
		parsed, err := types.ParseConfidence(rec.Confidence)
		if err != nil {
			logger.Warn("unknown confidence, using medium",
				zap.String("confidence", rec.Confidence))
		} else {
			confidence = parsed
		}
	}

	for name, value := range rec.Attributes {
		l.SetAttribute(name, value, rec.Source, confidence)
	}

	_, err := listings.Put(l)
	return err
}
