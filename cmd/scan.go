package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oasprobe/oasprobe/pkg/fuzz"
	"github.com/oasprobe/oasprobe/pkg/http_utils"
	"github.com/oasprobe/oasprobe/pkg/openapi"
	"github.com/oasprobe/oasprobe/pkg/scan"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [url]",
	Short: "Probe every operation of a specification for error-based SQL injection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaURL := args[0]

		rawHeaders, _ := cmd.Flags().GetStringArray("header")
		headers, err := parseHeaders(rawHeaders)
		if err != nil {
			return err
		}
		for name, value := range viper.GetStringMapString("scan.headers") {
			if _, ok := headers[name]; !ok {
				headers[name] = value
			}
		}

		timeout := time.Duration(viper.GetFloat64("scan.timeout") * float64(time.Second))
		client := newScanClient(timeout)

		loader := openapi.NewLoader(http_utils.CreateHttpClient(timeout), http_utils.DefaultUserAgent)
		model, err := openapi.Resolve(schemaURL, loader)
		if err != nil {
			return fmt.Errorf("failed to build API model: %w", err)
		}

		synth := fuzz.NewSynthesizer(viper.GetInt64("scan.seed"))
		generator := fuzz.NewGenerator(model, synth)

		engine, err := scan.NewEngineForModel(model, scan.Config{
			Client:    client,
			Headers:   headers,
			UserAgent: viper.GetString("scan.user_agent"),
			RateLimit: viper.GetFloat64("scan.rate_limit"),
			Workers:   viper.GetInt("scan.workers"),
		}, scan.NewFindingWriter(os.Stdout))
		if err != nil {
			return err
		}

		engine.Run(context.Background(), generator.Tasks())
		return nil
	},
}

func init() {
	scanCmd.Flags().StringArrayP("header", "H", nil, "Additional header (name:value), repeatable")
	scanCmd.Flags().Float64("rate-limit", 100, "Requests per minute rate limit")
	scanCmd.Flags().Float64("timeout", 30, "Per-request timeout in seconds")
	scanCmd.Flags().Int("workers", 10, "Concurrent worker count")
	scanCmd.Flags().Bool("http2", false, "Force HTTP/2 for scan requests")
	scanCmd.Flags().Int64("seed", 0, "Value synthesis seed, 0 for random")
	viper.BindPFlag("scan.rate_limit", scanCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("scan.timeout", scanCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("scan.workers", scanCmd.Flags().Lookup("workers"))
	viper.BindPFlag("scan.http2", scanCmd.Flags().Lookup("http2"))
	viper.BindPFlag("scan.seed", scanCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(scanCmd)
}

func newScanClient(timeout time.Duration) *http.Client {
	if viper.GetBool("scan.http2") {
		return http_utils.CreateHttp2Client(timeout)
	}
	return http_utils.CreateHttpClient(timeout)
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, header := range raw {
		name, value, found := strings.Cut(header, ":")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected name:value", header)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}
