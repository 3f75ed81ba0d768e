// List command: search stored listings with filter and sort flags.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forecourt/pkg/filter"
	"github.com/mesh-intelligence/forecourt/pkg/sorting"
	"github.com/mesh-intelligence/forecourt/pkg/types"
)

var (
	flagMake        string
	flagModel       string
	flagLocation    string
	flagPriceMin    float64
	flagPriceMax    float64
	flagYearMin     int
	flagMileageMax  int
	flagSavedFilter string
	flagSortField   string
	flagSortDesc    bool
	flagJSONOutput  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored listings, optionally filtered and sorted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func init() {
	listCmd.Flags().StringVar(&flagMake, "make", "", "filter by make")
	listCmd.Flags().StringVar(&flagModel, "model", "", "filter by model substring")
	listCmd.Flags().StringVar(&flagLocation, "location", "", "filter by location")
	listCmd.Flags().Float64Var(&flagPriceMin, "price-min", 0, "minimum price")
	listCmd.Flags().Float64Var(&flagPriceMax, "price-max", 0, "maximum price")
	listCmd.Flags().IntVar(&flagYearMin, "year-min", 0, "minimum model year")
	listCmd.Flags().IntVar(&flagMileageMax, "mileage-max", 0, "maximum mileage")
	listCmd.Flags().StringVar(&flagSavedFilter, "saved-filter", "", "apply a saved filter by name")
	listCmd.Flags().StringVar(&flagSortField, "sort", "", "sort by attribute (price, year, mileage, make, model, location)")
	listCmd.Flags().BoolVar(&flagSortDesc, "desc", false, "sort descending")
	listCmd.Flags().BoolVar(&flagJSONOutput, "json", false, "output as JSON")
}

func runList(cmd *cobra.Command) error {
	listings, err := store.Listings()
	if err != nil {
		return err
	}
	all, err := listings.Fetch(nil)
	if err != nil {
		return fmt.Errorf("fetch listings: %w", err)
	}
	c := types.NewCollection(all...)

	mgr, err := filterManager()
	if err != nil {
		return err
	}

	q, err := buildQuery(cmd, mgr)
	if err != nil {
		return err
	}
	c = mgr.FilterListings(c, q)

	results := c.Listings
	if flagSortField != "" {
		sm := sorting.NewManager()
		dir := sorting.Ascending
		if flagSortDesc {
			dir = sorting.Descending
		}
		sm.Add(sorting.Criteria{Field: flagSortField, Direction: dir})
		results = sm.Sort(c)
	}

	if flagJSONOutput {
		return printJSON(results)
	}
	printTable(results)
	return nil
}

// buildQuery combines flag criteria and any saved filter into one query.
// All criteria are ANDed together.
func buildQuery(cmd *cobra.Command, mgr *filter.Manager) (*filter.QueryBuilder, error) {
	q := mgr.NewQuery()

	if flagSavedFilter != "" {
		saved := mgr.LoadFilter(flagSavedFilter)
		if saved == nil {
			return nil, fmt.Errorf("saved filter %q not found or invalid", flagSavedFilter)
		}
		q = saved
	}

	if flagMake != "" {
		q = q.And(filter.NewQuery().Make(flagMake))
	}
	if flagModel != "" {
		q = q.And(filter.NewQuery().ModelContains(flagModel))
	}
	if flagLocation != "" {
		q = q.And(filter.NewQuery().Location(flagLocation))
	}
	if cmd.Flags().Changed("price-min") {
		q = q.And(filter.NewQuery().PriceMin(flagPriceMin))
	}
	if cmd.Flags().Changed("price-max") {
		q = q.And(filter.NewQuery().PriceMax(flagPriceMax))
	}
	if cmd.Flags().Changed("year-min") {
		q = q.And(filter.NewQuery().YearNewerThan(flagYearMin))
	}
	if cmd.Flags().Changed("mileage-max") {
		q = q.And(filter.NewQuery().MileageMax(flagMileageMax))
	}
	return q, nil
}

// listingRow is the JSON output shape for one listing.
type listingRow struct {
	ListingID string         `json:"listing_id"`
	Title     string         `json:"title"`
	Values    map[string]any `json:"values"`
	Sources   []string       `json:"sources"`
}

func printJSON(results []*types.Listing) error {
	rows := make([]listingRow, 0, len(results))
	for _, l := range results {
		values := make(map[string]any, len(l.Attributes))
		for name := range l.Attributes {
			values[name] = l.GetAttribute(name)
		}
		rows = append(rows, listingRow{
			ListingID: l.ListingID,
			Title:     l.Title(),
			Values:    values,
			Sources:   l.SourceNames(),
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func printTable(results []*types.Listing) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tMILEAGE\tLOCATION")
	for _, l := range results {
		price := "-"
		if p, ok := l.Price(); ok {
			price = fmt.Sprintf("%.0f", p)
		}
		mileage := "-"
		if m, ok := l.Mileage(); ok {
			mileage = fmt.Sprintf("%d", m)
		}
		location := l.Location()
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(l.ListingID), l.Title(), price, mileage, location)
	}
	w.Flush()
	fmt.Printf("%d listings\n", len(results))
}

// shortID trims a UUID to its first segment for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// filterManager returns a Manager backed by the attached store's named
// filter table.
func filterManager() (*filter.Manager, error) {
	filters, err := store.NamedFilters()
	if err != nil {
		return nil, err
	}
	return filter.NewManagerWithStore(filters, logger), nil
}
