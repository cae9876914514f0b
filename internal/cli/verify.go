package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gokul1734/factsense/internal/service"
)

var (
	verifyLink    string
	verifyTimeout time.Duration
	verifyJSON    bool
)

// verifyCmd runs one verification from the command line.
var verifyCmd = &cobra.Command{
	Use:   "verify [text]",
	Short: "Verify a single claim",
	Long: `Verify a claim given as text, a link, or both.

Examples:
  factsense verify "Chief Minister announces free bus travel for students"
  factsense verify --link https://example.com/article
  factsense verify --mode fast "quick check of this message"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) > 0 {
			text = args[0]
		}
		if text == "" && verifyLink == "" {
			return errors.New("provide claim text or --link")
		}

		logger := newLogger()
		svc, err := service.New(loadConfig(), logger)
		if err != nil {
			return fmt.Errorf("initialize pipeline: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		resp, err := svc.Verify(ctx, service.VerifyRequest{Text: text, Link: verifyLink})
		if err != nil {
			return err
		}

		if verifyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		printVerdict(resp)
		return nil
	},
}

func printVerdict(resp *service.VerifyResponse) {
	fmt.Printf("Verdict:    %s (confidence %.2f)\n", resp.Verdict.Label, resp.Verdict.Confidence)
	fmt.Printf("Method:     %s\n", resp.Verdict.Methodology)
	fmt.Printf("Category:   %s\n", resp.Category)
	if resp.Source.OrganizationName != "" {
		fmt.Printf("Source:     %s (credibility %.2f, %s)\n",
			resp.Source.OrganizationName, resp.Source.CredibilityScore, resp.Source.CredibilityTier)
	} else {
		fmt.Printf("Source:     unknown (credibility %.2f)\n", resp.Source.CredibilityScore)
	}
	if resp.Verdict.Explanation != "" {
		fmt.Printf("Reasoning:  %s\n", resp.Verdict.Explanation)
	}
	if len(resp.Evidence) > 0 {
		fmt.Println("\nEvidence:")
		for i, item := range resp.Evidence {
			fmt.Printf("  %d. %s\n     %s (credibility %.2f", i+1, item.Title, item.Domain, item.Credibility)
			if item.Relevance > 0 {
				fmt.Printf(", relevance %.2f", item.Relevance)
			}
			fmt.Println(")")
		}
	}
}

// newLogger sends pipeline logs to stderr so stdout stays parseable.
func newLogger() *log.Logger {
	out := io.Discard
	if verbose {
		out = os.Stderr
	}
	return log.New(out, "factsense: ", log.LstdFlags)
}

func init() {
	verifyCmd.Flags().StringVar(&verifyLink, "link", "", "link to the claim or article")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 90*time.Second, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(verifyCmd)
}
