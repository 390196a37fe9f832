package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	models "quizdash/internal/domain/models/report"
	"quizdash/internal/renderer"
	"quizdash/internal/service/report/converter"
	"quizdash/internal/service/report/render"
	"quizdash/internal/service/report/sanitizer"
)

var errInvalidContent = errors.New("content failed validation")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Inspect and convert quiz report template content",
		Long: `reportctl reads template content in its stored form (a JSON array of
{id,title,content} sections, or legacy raw HTML) and runs the same codec,
sanitizer and render preparation the server uses.

Use "-" as the file argument to read from stdin.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDecodeCmd(),
		newValidateCmd(),
		newSanitizeCmd(),
		newRenderCmd(),
		newImportCmd(),
		newExportCmd(),
		newVariablesCmd(),
	)
	return root
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode stored content into normalized sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := readSections(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sections)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check every section against the markup rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := readSections(cmd, args[0])
			if err != nil {
				return err
			}

			s := sanitizer.NewHTMLSanitizer()
			out := cmd.OutOrStdout()
			failed := 0
			for _, section := range sections {
				result := s.Validate(section.Content)
				if result.IsValid {
					fmt.Fprintf(out, "ok      %s\n", section.Title)
					continue
				}
				failed++
				fmt.Fprintf(out, "invalid %s\n", section.Title)
				for _, msg := range result.Errors {
					fmt.Fprintf(out, "        - %s\n", msg)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d sections", errInvalidContent, failed, len(sections))
			}
			return nil
		},
	}
}

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <file>",
		Short: "Sanitize every section and print the encoded result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := readSections(cmd, args[0])
			if err != nil {
				return err
			}

			s := sanitizer.NewHTMLSanitizer()
			for i := range sections {
				sections[i].Title = s.SanitizeTitle(sections[i].Title)
				sections[i].Content = s.Sanitize(sections[i].Content)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), models.EncodeSections(sections))
			return err
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		varsPath    string
		contextPath string
		replaceAll  bool
		rendererURL string
		outPath     string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Sanitize sections and substitute report variables",
		Long: `render prints the HTML payload a report would be rendered from.

Variables come from --context (a JSON report context resolved through the
variable catalog) and --vars (a YAML map of name: value, applied last).
With --renderer the payload is posted to a renderer and the document is
written to --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := readSections(cmd, args[0])
			if err != nil {
				return err
			}

			vars, err := loadVariables(contextPath, varsPath)
			if err != nil {
				return err
			}

			s := sanitizer.NewHTMLSanitizer()
			for i := range sections {
				sections[i].Content = s.Sanitize(sections[i].Content)
			}
			payload := render.Preparer{ReplaceAll: replaceAll}.Prepare(sections, vars)

			if rendererURL == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), payload.HTML)
				return err
			}
			if outPath == "" {
				return errors.New("--out is required with --renderer")
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			data, contentType, err := renderer.NewClient(rendererURL, os.Getenv("RENDERER_API_KEY"), timeout, logger).Render(ctx, payload)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", outPath, contentType, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&varsPath, "vars", "", "YAML file of variable values")
	cmd.Flags().StringVar(&contextPath, "context", "", "JSON report context file")
	cmd.Flags().BoolVar(&replaceAll, "replace-all", false, "Replace every occurrence of a placeholder, not only the first")
	cmd.Flags().StringVar(&rendererURL, "renderer", "", "Renderer endpoint to post the payload to")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file for the rendered document")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Renderer timeout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-md <file.md>",
		Short: "Convert a markdown document into encoded sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			doc, err := converter.NewImporter().Import(string(data))
			if err != nil {
				return err
			}
			if doc.Title != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "title: %s\n", doc.Title)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), models.EncodeSections(doc.Sections))
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert stored content into a markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := readSections(cmd, args[0])
			if err != nil {
				return err
			}

			markdown, err := converter.NewExporter().Export(name, sections)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), markdown)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "Report Template", "Document title")
	return cmd
}

func newVariablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variables",
		Short: "List the placeholders available to templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := render.NewCatalog()
			if err != nil {
				return err
			}
			for _, v := range catalog.Variables() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s (e.g. %s)\n", render.Placeholder(v.Name), v.Description, v.Example)
			}
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func readSections(cmd *cobra.Command, path string) ([]models.Section, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return models.NormalizeSections(models.DecodeSections(string(data))), nil
}

// loadVariables resolves the optional report context, then overlays the YAML map.
func loadVariables(contextPath, varsPath string) (map[string]string, error) {
	vars := map[string]string{}

	if contextPath != "" {
		data, err := os.ReadFile(contextPath)
		if err != nil {
			return nil, err
		}
		var rc models.ReportContext
		if err := json.Unmarshal(data, &rc); err != nil {
			return nil, fmt.Errorf("parse context %s: %w", contextPath, err)
		}
		catalog, err := render.NewCatalog()
		if err != nil {
			return nil, err
		}
		vars = catalog.Resolve(&rc)
	}

	if varsPath != "" {
		data, err := os.ReadFile(varsPath)
		if err != nil {
			return nil, err
		}
		var overrides map[string]string
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("parse vars %s: %w", varsPath, err)
		}
		for k, v := range overrides {
			vars[k] = v
		}
	}

	return vars, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
