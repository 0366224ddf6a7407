// Command compositectl runs property predictions from the terminal without
// the HTTP service.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"Composite/internal/calc/composite"
	"Composite/internal/calc/premium/importer"
	"Composite/internal/calc/report"
	"Composite/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compositectl",
		Short:         "Estimate fiber-reinforced composite properties",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(predictCmd(), batchCmd(), reportCmd(), optionsCmd(), versionCmd())
	return cmd
}

func addRequestFlags(cmd *cobra.Command, req *composite.Request) {
	cmd.Flags().StringVar(&req.FiberType, "fiber", string(composite.DefaultFiber), "Fiber type")
	cmd.Flags().StringVar(&req.MatrixType, "matrix", string(composite.DefaultMatrix), "Matrix type")
	cmd.Flags().Float64Var(&req.FiberVolumeFraction, "vf", composite.ReferenceFraction, "Fiber volume fraction (0.3-0.7)")
	cmd.Flags().StringVar(&req.Layup, "layup", composite.DefaultRequestLayup, "Layup configuration")
	cmd.Flags().StringVar(&req.Manufacturing, "manufacturing", composite.DefaultRequestManufacturing, "Manufacturing process")
}

func predictCmd() *cobra.Command {
	var req composite.Request
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the seven properties for one material",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return errors.New(composite.MsgFractionRange)
			}
			return writeJSON(cmd.OutOrStdout(), composite.PredictResponse{
				Success:     true,
				Method:      composite.Method,
				Input:       composite.EchoInput(nil, req),
				Predictions: composite.Default().Predict(req),
				Units:       composite.Units,
			})
		},
	}
	addRequestFlags(cmd, &req)
	return cmd
}

func batchCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "batch <input.xlsx>",
		Short: "Predict every row of a workbook",
		Long: `Reads the first sheet of an XLSX workbook (header row, then columns
fiber_type, matrix_type, fiber_volume_fraction, layup, manufacturing) and
writes the predictions as a workbook with -o, or as JSON to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			samples, err := importer.ReadSamples(in)
			if err != nil {
				return err
			}
			res, err := importer.Calculate(composite.NewHandler(composite.Default()), samples)
			if err != nil {
				return err
			}
			if output == "" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := importer.WriteResults(out, res); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s (%d failed)\n", res.Count, output, res.Failed())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write results to this XLSX file")
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		req    composite.Request
		meta   report.Meta
		output string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a PDF report for one material",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return errors.New(composite.MsgFractionRange)
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.Render(out, report.Build(composite.Default(), req, meta)); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	addRequestFlags(cmd, &req)
	cmd.Flags().StringVar(&meta.Project, "project", "", "Project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "Report author")
	cmd.Flags().StringVar(&meta.Title, "title", "", "Report title")
	cmd.Flags().StringVar(&meta.Notes, "notes", "", "Free text notes")
	cmd.Flags().StringVarP(&output, "output", "o", "composite-report.pdf", "Output PDF path")
	return cmd
}

func optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List accepted inputs and factor tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), composite.BuildOptions(composite.Default()))
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "compositectl version %s (%s)\n", server.Version, composite.Method)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
