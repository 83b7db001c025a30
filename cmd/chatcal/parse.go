package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liao/chatcal/internal/parser"
)

func parseCmd() *cobra.Command {
	var format, decryptKey string

	cmd := &cobra.Command{
		Use:   "parse <transcript>",
		Short: "Parse a chat transcript and print the messages (no model calls)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readTranscript(args[0], decryptKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Parsed %d messages\n", len(records))
			return writeRecords(cmd.OutOrStdout(), format, records)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	cmd.Flags().StringVar(&decryptKey, "decrypt-key", "", "password for encrypted .enc transcripts (or DECRYPT_KEY env)")
	return cmd
}

func writeRecords(w io.Writer, format string, records []parser.Record) error {
	switch strings.ToLower(format) {
	case "text":
		for i := range records {
			if _, err := fmt.Fprintln(w, records[i].Format()); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []parser.Record{}
		}
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
