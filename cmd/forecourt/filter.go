// Filter command group: manage named filters persisted in the store.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forecourt/pkg/filter"
)

var (
	saveMake       string
	saveModel      string
	saveLocation   string
	savePriceMin   float64
	savePriceMax   float64
	saveYearMin    int
	saveMileageMax int
	saveExpression string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Manage saved filters",
}

var filterSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a filter under a name",
	Long: `Save builds a filter from criteria flags, or from a raw JSON
expression given with --expression, and stores it under the given name.
All criteria flags are ANDed together.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilterSave(cmd, args[0])
	},
}

var filterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved filter names",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := filterManager()
		if err != nil {
			return err
		}
		for _, name := range mgr.SavedFilters() {
			fmt.Println(name)
		}
		return nil
	},
}

var filterShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved filter's expression as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilterShow(args[0])
	},
}

var filterDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := filterManager()
		if err != nil {
			return err
		}
		if !mgr.DeleteFilter(args[0]) {
			return fmt.Errorf("filter %q not found", args[0])
		}
		fmt.Printf("Deleted filter %q\n", args[0])
		return nil
	},
}

func init() {
	filterSaveCmd.Flags().StringVar(&saveMake, "make", "", "filter by make")
	filterSaveCmd.Flags().StringVar(&saveModel, "model", "", "filter by model substring")
	filterSaveCmd.Flags().StringVar(&saveLocation, "location", "", "filter by location")
	filterSaveCmd.Flags().Float64Var(&savePriceMin, "price-min", 0, "minimum price")
	filterSaveCmd.Flags().Float64Var(&savePriceMax, "price-max", 0, "maximum price")
	filterSaveCmd.Flags().IntVar(&saveYearMin, "year-min", 0, "minimum model year")
	filterSaveCmd.Flags().IntVar(&saveMileageMax, "mileage-max", 0, "maximum mileage")
	filterSaveCmd.Flags().StringVar(&saveExpression, "expression", "", "raw JSON filter expression")

	filterCmd.AddCommand(filterSaveCmd)
	filterCmd.AddCommand(filterListCmd)
	filterCmd.AddCommand(filterShowCmd)
	filterCmd.AddCommand(filterDeleteCmd)
}

func runFilterSave(cmd *cobra.Command, name string) error {
	mgr, err := filterManager()
	if err != nil {
		return err
	}

	q := filter.NewQuery()
	if saveExpression != "" {
		expr, err := filter.Unmarshal([]byte(saveExpression))
		if err != nil {
			return fmt.Errorf("parse expression: %w", err)
		}
		q = filter.NewQueryFrom(expr)
	} else {
		if saveMake != "" {
			q = q.And(filter.NewQuery().Make(saveMake))
		}
		if saveModel != "" {
			q = q.And(filter.NewQuery().ModelContains(saveModel))
		}
		if saveLocation != "" {
			q = q.And(filter.NewQuery().Location(saveLocation))
		}
		if cmd.Flags().Changed("price-min") {
			q = q.And(filter.NewQuery().PriceMin(savePriceMin))
		}
		if cmd.Flags().Changed("price-max") {
			q = q.And(filter.NewQuery().PriceMax(savePriceMax))
		}
		if cmd.Flags().Changed("year-min") {
			q = q.And(filter.NewQuery().YearNewerThan(saveYearMin))
		}
		if cmd.Flags().Changed("mileage-max") {
			q = q.And(filter.NewQuery().MileageMax(saveMileageMax))
		}
	}

	if !mgr.SaveFilter(name, q) {
		return fmt.Errorf("filter %q not saved: no criteria given", name)
	}
	fmt.Printf("Saved filter %q\n", name)
	return nil
}

func runFilterShow(name string) error {
	mgr, err := filterManager()
	if err != nil {
		return err
	}
	q := mgr.LoadFilter(name)
	if q == nil {
		return fmt.Errorf("filter %q not found", name)
	}
	data, err := filter.Marshal(q.Expression())
	if err != nil {
		return err
	}

	// Re-indent for readability.
	var pretty any
	if err := json.Unmarshal(data, &pretty); err == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pretty)
	}
	fmt.Println(string(data))
	return nil
}
