package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xprabhudayal/genai/internal/presenter/archive"
	"github.com/xprabhudayal/genai/internal/presenter/terminal"
	"github.com/xprabhudayal/genai/internal/terms"
	"github.com/xprabhudayal/genai/pkg/logger"
)

var (
	simplifyFile  string
	summarizeFile string
	termsFile     string
	termsExtended bool
	termsCommon   bool
	termsPick     int
	pruneOlder    time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a PDF, DOCX or TXT document for summary and simplification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		req := a.validator.NewUploadRequest(args[0], data)
		if _, err := a.orch.SubmitDocument(cmd.Context(), req); err != nil {
			return reported(err)
		}
		a.printArchived()
		return nil
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify [text...]",
	Short: "Rewrite legal text in plain language",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		text, err := a.inputText(cmd.Context(), simplifyFile, args)
		if err != nil {
			return err
		}
		if _, err := a.orch.SubmitTextForSimplification(cmd.Context(), text); err != nil {
			return reported(err)
		}
		a.printArchived()
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [text...]",
	Short: "Summarize legal text",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		text, err := a.inputText(cmd.Context(), summarizeFile, args)
		if err != nil {
			return err
		}
		if _, err := a.orch.Summarize(cmd.Context(), text); err != nil {
			return reported(err)
		}
		a.printArchived()
		return nil
	},
}

var termsCmd = &cobra.Command{
	Use:   "terms [text...]",
	Short: "Find legal terms in text locally, optionally explaining one",
	Long: `terms scans text for legal terms without contacting the service.

With --pick N the Nth term found is sent to the service for an explanation.
With --common the built-in list of common legal terms is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if termsCommon {
			out := cmd.OutOrStdout()
			for i, term := range terms.CommonTerms {
				fmt.Fprintf(out, "  %d. %s\n", i+1, terminal.Capitalize(term))
			}
			return nil
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		text, err := a.inputText(cmd.Context(), termsFile, args)
		if err != nil {
			return err
		}

		var opts []terms.Option
		if termsExtended {
			opts = append(opts, terms.WithExtendedVocabulary())
		}
		found, err := a.orch.ExplainTermsWith(terms.NewExtractor(opts...), text)
		if err != nil {
			return reported(err)
		}

		if termsPick == 0 || len(found) == 0 {
			return nil
		}
		if termsPick < 1 || termsPick > len(found) {
			return fmt.Errorf("--pick must be between 1 and %d", len(found))
		}
		if _, err := a.orch.RequestTermExplanation(cmd.Context(), found[termsPick-1]); err != nil {
			return reported(err)
		}
		a.printArchived()
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <term...>",
	Short: "Explain a legal term",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.orch.RequestTermExplanation(cmd.Context(), strings.Join(args, " ")); err != nil {
			return reported(err)
		}
		a.printArchived()
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the service is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		status, err := a.orch.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("service at %s is unreachable: %w", a.cfg.Service.BaseURL, err)
		}
		fmt.Fprintf(a.out, "%s: %s\n", status.Status, status.Message)
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect and maintain archived results",
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print an archived result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newArchiveApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := archive.Load(cmd.Context(), a.store, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s archived %s\n", rec.Kind, rec.ArchivedAt.Format(time.RFC3339))
		_, err = io.WriteString(a.out, string(rec.Result)+"\n")
		return err
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete an archived result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newArchiveApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %s\n", args[0])
		return nil
	},
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archived results older than --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newArchiveApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		threshold := time.Now().Add(-pruneOlder)
		removed, err := a.store.CleanupBefore(cmd.Context(), a.cfg.Archive.Prefix+"/", threshold)
		if err != nil {
			return err
		}
		a.log.Info("Archive pruned", logger.Int("removed", removed), logger.Time("before", threshold))
		fmt.Fprintf(a.out, "Removed %d archived results\n", removed)
		return nil
	},
}

func newArchiveApp(cmd *cobra.Command) (*app, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	if a.store == nil {
		a.close()
		return nil, errors.New("no archive configured; set archive.type or pass --archive")
	}
	return a, nil
}

func init() {
	simplifyCmd.Flags().StringVarP(&simplifyFile, "file", "f", "", "read text from a PDF, DOCX or TXT file")
	summarizeCmd.Flags().StringVarP(&summarizeFile, "file", "f", "", "read text from a PDF, DOCX or TXT file")

	termsCmd.Flags().StringVarP(&termsFile, "file", "f", "", "read text from a PDF, DOCX or TXT file")
	termsCmd.Flags().BoolVar(&termsExtended, "extended", false, "also look for Latin terms and contract elements")
	termsCmd.Flags().BoolVar(&termsCommon, "common", false, "print common legal terms and exit")
	termsCmd.Flags().IntVarP(&termsPick, "pick", "p", 0, "explain the Nth term found")

	archivePruneCmd.Flags().DurationVar(&pruneOlder, "older-than", 30*24*time.Hour, "age of results to remove")
	archiveCmd.AddCommand(archiveGetCmd, archiveDeleteCmd, archivePruneCmd)
}

