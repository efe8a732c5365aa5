package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oasprobe/oasprobe/lib"
	"github.com/oasprobe/oasprobe/pkg/http_utils"
	"github.com/oasprobe/oasprobe/pkg/openapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// OperationSummary is one row of the operation-surface listing.
type OperationSummary struct {
	Method     string   `json:"method" yaml:"method"`
	Path       string   `json:"path" yaml:"path"`
	PathParams int      `json:"path_params" yaml:"path_params"`
	Query      int      `json:"query_params" yaml:"query_params"`
	Headers    int      `json:"header_params" yaml:"header_params"`
	Mimes      []string `json:"payload_mimes,omitempty" yaml:"payload_mimes,omitempty"`
}

func (o OperationSummary) String() string {
	return fmt.Sprintf("%s %s", strings.ToUpper(o.Method), o.Path)
}

func (o OperationSummary) TableHeaders() []string {
	return []string{"Method", "Path", "Path params", "Query", "Headers", "Payload mimes"}
}

func (o OperationSummary) TableRow() []string {
	return []string{
		strings.ToUpper(o.Method),
		o.Path,
		strconv.Itoa(o.PathParams),
		strconv.Itoa(o.Query),
		strconv.Itoa(o.Headers),
		strings.Join(o.Mimes, ", "),
	}
}

var operationsCmd = &cobra.Command{
	Use:   "operations [url]",
	Short: "List the scannable operation surface of a specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaURL := args[0]

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := lib.ParseFormatType(formatFlag)
		if err != nil {
			return err
		}

		timeout := time.Duration(viper.GetFloat64("scan.timeout") * float64(time.Second))
		loader := openapi.NewLoader(http_utils.CreateHttpClient(timeout), http_utils.DefaultUserAgent)
		model, err := openapi.Resolve(schemaURL, loader)
		if err != nil {
			return fmt.Errorf("failed to build API model: %w", err)
		}

		var summaries []OperationSummary
		for _, path := range model.Paths() {
			for _, method := range model.Operations(path) {
				summaries = append(summaries, OperationSummary{
					Method:     method,
					Path:       path,
					PathParams: len(model.ParametersIn(path, method, "path")),
					Query:      len(model.ParametersIn(path, method, "query")),
					Headers:    len(model.ParametersIn(path, method, "header")),
					Mimes:      model.PayloadMimes(path, method),
				})
			}
		}

		output, err := lib.FormatOutput(summaries, format)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	operationsCmd.Flags().StringP("format", "f", "table", "Output format (text, json, yaml, table)")
	rootCmd.AddCommand(operationsCmd)
}
