package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/postcraft/internal/bootstrap"
	"github.com/jonesrussell/postcraft/internal/generation"
	"github.com/jonesrussell/postcraft/internal/models"
)

func newGenerateCommand() *cobra.Command {
	var (
		req      generation.Request
		platform string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one post through the provider chain",
		Example: `  postcraft generate --topic "Best Coffee Shop!!" --platform instagram --hashtags
  postcraft generate --topic "hiring" --platform linkedin --tone Professional --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePlatform(platform)
			if err != nil {
				return err
			}
			req.Platform = p

			cfg, err := loadOptionalConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := commandLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			svc, err := bootstrap.NewGenerationService(cfg.Generation, nil, Version, log)
			if err != nil {
				return err
			}

			res, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			renderResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Topic, "topic", "", "what the post is about")
	f.StringVar(&platform, "platform", string(models.PlatformFacebook), "facebook, instagram, linkedin or tiktok")
	f.StringVar(&req.Tone, "tone", "", "optional tone, e.g. Friendly")
	f.IntVar(&req.MaxLength, "max-length", 0, "maximum length passed to the provider (default 200)")
	f.BoolVar(&req.IncludeHashtags, "hashtags", false, "derive hashtags from the topic")
	f.BoolVar(&req.IncludeEmojis, "emojis", false, "ask for emojis")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func renderResult(w io.Writer, res generation.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Provider", res.Provider},
		{"Model", res.ModelUsed},
		{"Confidence", fmt.Sprintf("%.2f", res.ConfidenceScore)},
		{"Hashtags", strings.Join(res.Hashtags, " ")},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Content", res.Content})
	t.Render()
}
