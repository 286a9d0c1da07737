package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"veille-strategique/collector"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one news collection",
	Long: `Search the web for the monitored keywords and store new articles.

Examples:
  veille collect --type critique               # critical keywords, last day
  veille collect --type quotidienne --recency week`,
	RunE: runCollect,
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich one stored article",
	RunE:  runEnrich,
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Score the sentiment of unscored articles",
	RunE:  runSentiment,
}

var spdiCmd = &cobra.Command{
	Use:   "spdi",
	Short: "Compute the SPDI of one actor, or of every tracked actor",
	RunE:  runSpdi,
}

func init() {
	rootCmd.AddCommand(collectCmd, enrichCmd, sentimentCmd, spdiCmd)

	collectCmd.Flags().String("type", collector.TypeDaily, "collection type: critique or quotidienne")
	collectCmd.Flags().String("recency", collector.RecencyDay, "search window: day, week or month")

	enrichCmd.Flags().String("id", "", "article id")
	_ = enrichCmd.MarkFlagRequired("id")

	sentimentCmd.Flags().Int("limit", 0, "maximum number of articles (0 = configured default)")

	spdiCmd.Flags().String("id", "", "actor id (default: every tracked actor)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("type")
	recency, _ := cmd.Flags().GetString("recency")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.collector.Collect(cmd.Context(), collector.Request{Type: kind, Recency: recency})
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.enrich.EnrichArticle(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.enrich.ScoreSentiments(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func runSpdi(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("id")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if raw == "" {
		res, err := a.spdi.ComputeAll(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}
	res, err := a.spdi.Compute(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
