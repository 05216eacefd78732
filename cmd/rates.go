package main

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fieldops/finpipe/internal/rates"
	"github.com/fieldops/finpipe/pkg/exchangerate"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch and print the current rate snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Rates.APIKey == "" {
			return eris.New("rate provider API key is required (FINPIPE_RATES_API_KEY)")
		}

		client := exchangerate.NewClient(cfg.Rates.APIKey, exchangerate.WithBaseURL(cfg.Rates.BaseURL))
		snap, err := rates.NewAPIProvider(client).Latest(cmd.Context(), cfg.Rates.BaseCurrency)
		if err != nil {
			return err
		}

		codes := snap.Currencies()
		sort.Strings(codes)

		fmt.Printf("snapshot as of %s: %d currencies convertible into %s\n",
			snap.AsOf.Format("2006-01-02 15:04:05 MST"), len(codes), snap.Base)
		for _, code := range codes {
			if code == snap.Base {
				continue
			}
			fmt.Printf("  1 %s = %s %s\n", code, snap.Factors[code].String(), snap.Base)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}
