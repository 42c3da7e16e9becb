package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	transports "github.com/ChameeraD/RealTimeDashboard/internal/cmd/client/transports"
)

// NewSubscribeCommand constructs the `subscribe` command. It prints one JSON
// line per received point.
func NewSubscribeCommand() *cobra.Command {
	subCmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Stream data points for a source over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("source")
			interval, _ := cmd.Flags().GetInt32("interval-ms")
			limit, _ := cmd.Flags().GetInt("limit")
			filter, _ := cmd.Flags().GetString("filter")
			key, _ := cmd.Flags().GetString("api-key")
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			err := getTransport().Subscribe(cmd.Context(), transports.SubscribeRequest{
				SourceID:   source,
				IntervalMs: interval,
				Filter:     filter,
				Limit:      limit,
				APIKey:     apiKeyOrEnv(key),
			}, func(p transports.Point) error {
				return enc.Encode(p)
			})
			if err != nil {
				return describeRPCError(err)
			}
			return nil
		},
	}
	subCmd.Flags().String("source", "", "Source ID")
	subCmd.Flags().Int32("interval-ms", 1000, "Emission interval in milliseconds")
	subCmd.Flags().Int("limit", 0, "Stop after N points (0 = infinite)")
	subCmd.Flags().String("filter", "", "CEL filter (server-side)")
	subCmd.Flags().String("api-key", "", "API key (default $DASH_API_KEY)")
	return subCmd
}

// NewSessionsCommand constructs the `sessions` command, which lists recent
// sessions from the HTTP API.
func NewSessionsCommand(baseURL BaseURLFunc) *cobra.Command {
	sessCmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recently terminated sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("source")
			limit, _ := cmd.Flags().GetInt("limit")
			key, _ := cmd.Flags().GetString("api-key")

			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			if source != "" {
				q.Set("source_id", source)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, baseURL()+"/v1/sessions?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			if k := apiKeyOrEnv(key); k != "" {
				req.Header.Set("Authorization", "Bearer "+k)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 300 {
				_, _ = io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("http error: %s", resp.Status)
			}
			var data struct {
				Sessions []json.RawMessage `json:"sessions"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
				return err
			}
			if data.Sessions == nil {
				data.Sessions = []json.RawMessage{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}
	sessCmd.Flags().String("source", "", "Only sessions for this source")
	sessCmd.Flags().Int("limit", 50, "Max sessions to return")
	sessCmd.Flags().String("api-key", "", "API key (default $DASH_API_KEY)")
	return sessCmd
}
