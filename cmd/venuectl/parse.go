package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Strictly parse a venue catalog and summarize it",
	Long:  `Parses a venue JSON document and fails on the first malformed value. Reads stdin when no file or "-" is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the parsed records as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	venues, err := catalog.ReadVenues(in)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	if parseJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(venues)
	}
	return printSummary(out, catalog.New(venues, time.Now()))
}

func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

func printSummary(w io.Writer, c *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tSCHEDULE")
	for _, v := range c.List() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.ID, v.Name, v.Location(), firstSlot(v))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d venues, etag %s\n", c.Len(), c.ETag())
	return err
}

func firstSlot(v model.Venue) string {
	if len(v.Schedule) == 0 {
		return "-"
	}
	line := v.Schedule[0].Format(nil)
	if n := len(v.Schedule) - 1; n > 0 {
		line += fmt.Sprintf(" (+%d)", n)
	}
	return line
}
