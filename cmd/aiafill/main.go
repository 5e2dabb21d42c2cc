// Package main provides the CLI entry point for aiafill.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/aiafill-go/internal/bootstrap"
	"github.com/ukaji3/aiafill-go/internal/config"
	"github.com/ukaji3/aiafill-go/internal/logging"
	"github.com/ukaji3/aiafill-go/internal/server"
	"github.com/ukaji3/aiafill-go/pkg/aiafill"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"go.uber.org/zap"
)

var (
	configPath   string
	companyID    string
	dataPaths    []string
	templatePath string
	outputDir    string
	forReview    bool
	pretty       bool
	withCells    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aiafill",
		Short: "Fill AIA pay application templates",
		Long: `aiafill merges invoice and schedule-of-values data into a company's
xlsx template and writes the filled workbook.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate pay application workbooks from JSON data files",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&companyID, "company", "", "Company whose default template is used")
	generateCmd.Flags().StringArrayVar(&dataPaths, "data", nil, "Application data JSON file (repeatable)")
	generateCmd.Flags().StringVar(&templatePath, "template", "", "Use this xlsx file instead of the company's default template")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	generateCmd.Flags().BoolVar(&forReview, "review", false, "Produce review copies")
	_ = generateCmd.MarkFlagRequired("data")

	inspectCmd := &cobra.Command{
		Use:   "inspect [template.xlsx]",
		Short: "Report the placeholders and SOV row of a template",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	inspectCmd.Flags().BoolVar(&withCells, "cells", false, "Include the full cell snapshot")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(generateCmd, inspectCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if templatePath == "" && companyID == "" {
		return errors.New("either --company or --template is required")
	}
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var jobs []aiafill.Job
	for _, path := range dataPaths {
		data, err := readData(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, aiafill.Job{
			CompanyID: companyID,
			Data:      data,
			Request:   aiafill.Request{ForReview: forReview},
		})
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx := cmd.Context()
	var results []aiafill.Result
	if templatePath != "" {
		results, err = renderLocal(cfg, log, jobs)
	} else {
		results, err = generateFromRepository(ctx, cfg, log, jobs)
	}
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", dataPaths[i], res.Err)
		case res.Document == nil:
			failed++
			fmt.Fprintf(os.Stderr, "%s: company %q has no default template; use the fallback renderer\n", dataPaths[i], res.Job.CompanyID)
		default:
			out := filepath.Join(outputDir, res.Document.FileName)
			if err := os.WriteFile(out, res.Document.Blob, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d applications failed", failed, len(results))
	}
	return nil
}

func renderLocal(cfg config.Config, log *zap.Logger, jobs []aiafill.Job) ([]aiafill.Result, error) {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", templatePath)
	}
	gen, err := bootstrap.Generator(noTemplates{}, cfg.Generate, log)
	if err != nil {
		return nil, err
	}
	results := make([]aiafill.Result, len(jobs))
	for i, job := range jobs {
		doc, err := gen.Render(template, filepath.Base(templatePath), job.Data, job.Request)
		results[i] = aiafill.Result{Job: job, Document: doc, Err: err}
	}
	return results, nil
}

func generateFromRepository(ctx context.Context, cfg config.Config, log *zap.Logger, jobs []aiafill.Job) ([]aiafill.Result, error) {
	repo, closers, err := bootstrap.Repository(ctx, cfg.Repository, log)
	if err != nil {
		return nil, err
	}
	defer closers.Close()

	gen, err := bootstrap.Generator(repo, cfg.Generate, log)
	if err != nil {
		return nil, err
	}
	return gen.GenerateBatch(ctx, jobs), nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	template, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("file not found: %s", inputPath)
	}
	report, err := aiafill.Inspect(template, filepath.Base(inputPath), withCells)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closers, err := bootstrap.Repository(ctx, cfg.Repository, log)
	if err != nil {
		return err
	}
	defer closers.Close()

	gen, err := bootstrap.Generator(repo, cfg.Generate, log)
	if err != nil {
		return err
	}
	return server.New(gen, log).ListenAndServe(ctx, cfg.Server.Addr)
}

func readData(path string) (models.InvoiceApplicationData, error) {
	var data models.InvoiceApplicationData
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("file not found: %s", path)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("invalid application data in %s: %w", path, err)
	}
	return data, nil
}

// noTemplates backs a Generator that only renders local template files.
type noTemplates struct{}

func (noTemplates) ResolveDefaultTemplate(context.Context, string) (*models.TemplateDescriptor, error) {
	return nil, nil
}

func (noTemplates) FetchTemplateBytes(context.Context, models.TemplateDescriptor) ([]byte, error) {
	return nil, errors.New("no template repository configured")
}
