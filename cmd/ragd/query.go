package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ragd/pkg/types"
)

func newSearchCmd() *cobra.Command {
	var (
		url  string
		topK int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.SearchResponse
			req := types.SearchRequest{Query: strings.Join(args, " "), TopK: topK}
			if err := newClient(url, time.Minute).postJSON(cmd.Context(), "/v1/search", req, &resp); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range resp.Results {
				fmt.Fprintf(out, "%d. %s#%d (%.3f)\n   %s\n", i+1, r.DocumentID, r.Index, r.Score, r.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", envStr("RAGD_URL", "http://localhost:8080"), "Base URL of the ragd server")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Maximum results (0 uses the server default)")
	return cmd
}

func newAskCmd() *cobra.Command {
	var (
		url       string
		maxTokens int
		sources   bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question and stream the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.RAGRequest{Query: strings.Join(args, " "), MaxTokens: maxTokens}
			resp, err := newClient(url, 10*time.Minute).post(cmd.Context(), "/v1/rag", req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			return printStream(cmd, bufio.NewScanner(resp.Body), sources)
		},
	}
	cmd.Flags().StringVar(&url, "url", envStr("RAGD_URL", "http://localhost:8080"), "Base URL of the ragd server")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum tokens to generate (0 uses the generator default)")
	cmd.Flags().BoolVar(&sources, "sources", false, "Print the retrieved sources after the answer")
	return cmd
}

// streamLine is the union of the NDJSON line shapes of /v1/rag.
type streamLine struct {
	Token *string `json:"token"`
	types.RAGFinal
	Error string `json:"error"`
}

func printStream(cmd *cobra.Command, sc *bufio.Scanner, sources bool) error {
	out := cmd.OutOrStdout()
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)
	for sc.Scan() {
		var line streamLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			return fmt.Errorf("bad stream line %q: %w", sc.Text(), err)
		}
		switch {
		case line.Error != "":
			fmt.Fprintln(out)
			return fmt.Errorf("server: %s", line.Error)
		case line.Token != nil:
			fmt.Fprint(out, *line.Token)
		case line.Done:
			fmt.Fprintln(out)
			if sources {
				for i, s := range line.Sources {
					fmt.Fprintf(out, "[%d] %s#%d\n", i+1, s.DocumentID, s.Index)
				}
			}
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("stream ended without a final line")
}
