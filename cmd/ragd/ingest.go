package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ragd/internal/registry"
	"ragd/pkg/types"
)

func newIngestCmd() *cobra.Command {
	var (
		url       string
		batchSize int
	)
	cmd := &cobra.Command{
		Use:     "ingest <dir>",
		Short:   "Ingest a directory of text files into a running server",
		Example: "  ragd ingest ./docs\n  ragd ingest ~/notes --url http://localhost:9090",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := registry.LoadDir(args[0])
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("no documents found in %s", args[0])
			}
			if batchSize <= 0 {
				batchSize = len(docs)
			}
			c := newClient(url, 5*time.Minute)
			var total types.IngestResponse
			for start := 0; start < len(docs); start += batchSize {
				end := min(start+batchSize, len(docs))
				var resp types.IngestResponse
				if err := c.postJSON(cmd.Context(), "/v1/documents", types.IngestRequest{Documents: docs[start:end]}, &resp); err != nil {
					return fmt.Errorf("ingest batch %d-%d: %w", start, end, err)
				}
				log.Debug().Int("documents", len(resp.DocumentIDs)).Int("chunks", resp.Chunks).Msg("batch ingested")
				total.DocumentIDs = append(total.DocumentIDs, resp.DocumentIDs...)
				total.Chunks += resp.Chunks
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d documents (%d chunks)\n", len(total.DocumentIDs), total.Chunks)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", envStr("RAGD_URL", "http://localhost:8080"), "Base URL of the ragd server")
	cmd.Flags().IntVar(&batchSize, "batch", 64, "Documents per request (0 sends everything at once)")
	return cmd
}
