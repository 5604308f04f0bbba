package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dynolab/effmap"
	"github.com/dynolab/effmap/pipeline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	var (
		opts     pipeline.Options
		channels []string
	)

	root := &cobra.Command{
		Use:   "effmap",
		Short: "Motor efficiency map and area-ratio analysis",
		Long: `effmap ingests motor-test measurement sheets (speed, torque, power,
efficiency channels) and produces envelope-bounded efficiency/power grids
plus area-ratio statistics per efficiency threshold.

Examples:
  effmap -i bench_run.xlsx -c settings.ini -o out
  effmap -i bench_run.xlsx --sheet "3000rpm sweep" --format csv -o out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ch := range channels {
				opts.Channels = append(opts.Channels, effmap.Channel(ch))
			}
			res, err := pipeline.Run(opts)
			if err != nil {
				return err
			}
			render(res)
			return nil
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&opts.InputPath, "input", "i", "", "measurement workbook (.xlsx) or table (.csv)")
	root.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "INI settings file")
	root.Flags().StringVar(&opts.Sheet, "sheet", "", "process a single named sheet")
	root.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory")
	root.Flags().StringVar(&opts.Format, "format", "parquet", "grid-point artifact format: parquet|csv")
	root.Flags().BoolVar(&opts.Overwrite, "overwrite", true, "allow writing into a non-empty output directory")
	root.Flags().StringSliceVar(&channels, "channel", nil, "efficiency channel (Eff_MCU|Eff_Motor|Eff_SYS), repeatable; default all")
	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("out")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func render(res *pipeline.Result) {
	for _, sr := range res.Sheets {
		pterm.DefaultSection.Println(sr.Sheet)
		if sr.Error != "" {
			pterm.Error.Printfln("failed: %s", sr.Error)
			continue
		}
		pterm.Info.Printfln("direction=%s state=%s rows=%d envelope=%s",
			sr.Direction, sr.State, sr.RowsKept, sr.CurveKind)

		data := pterm.TableData{{"Channel", "Level (%)", "Area ratio (%)"}}
		for _, ch := range effmap.AllChannels {
			for _, r := range sr.Ratios[ch] {
				data = append(data, []string{
					string(ch),
					fmt.Sprintf("%.6g", r.Level),
					fmt.Sprintf("%.2f", r.Ratio),
				})
			}
		}
		if len(data) > 1 {
			_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		} else {
			pterm.Warning.Println("no area ratios (empty operating region or no thresholds)")
		}
		for _, w := range sr.Warnings {
			pterm.Warning.Println(w)
		}
		pterm.Info.Printfln("grid points: %s", sr.GridPointsPath)
	}
	pterm.Success.Printfln("output written to %s", res.OutputDir)
}
