package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
	"github.com/spf13/cobra"

	"github.com/spektr-org/csvlens/chart"
	"github.com/spektr-org/csvlens/export"
	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/server"
	"github.com/spektr-org/csvlens/session"
	"github.com/spektr-org/csvlens/translator"
)

// ── analyze ──────────────────────────────────────────────────────────────

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Show inferred column types and statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			p := schema.Analyze(t, a.settings.Analyzer)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			size := ""
			if info, err := os.Stat(args[0]); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			renderSummary(cmd.OutOrStdout(), filepath.Base(args[0]), size, p)
			renderColumns(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

// ── report ───────────────────────────────────────────────────────────────

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the plain-text analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				if err := export.Report(w, schema.Analyze(t, a.settings.Analyzer)); err != nil {
					return err
				}
				_, err := io.WriteString(w, "\n")
				return err
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write the report to a file instead of stdout")
	return cmd
}

// ── translate ────────────────────────────────────────────────────────────

func newTranslateCmd(a *app) *cobra.Command {
	var (
		columns []string
		lang    string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate text columns and write the result as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			if lang == "" {
				lang = a.settings.Translator.TargetLanguage
			}
			sess := session.New("cli")
			sess.SetTable(filepath.Base(args[0]), t, a.settings.Analyzer)
			if len(columns) == 0 {
				p, _ := sess.Profile()
				columns = p.TextColumns
			}

			res, err := a.translate(cmd, sess, columns, lang)
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				return export.CSV(w, res.Table)
			})
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to translate (default: all text columns)")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language code (default: Translator.targetLanguage)")
	cmd.Flags().StringVar(&out, "out", "", "Write CSV to a file instead of stdout")
	return cmd
}

// translate runs a translation pass over the session table, drawing
// progress on stderr.
func (a *app) translate(cmd *cobra.Command, sess *session.Session, columns []string, lang string) (*translator.Result, error) {
	tr := a.settings.Translator.NewTranslator(cmd.Context(), a.log, stats.NOP)
	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, tr.Info())

	res, err := sess.Translate(cmd.Context(), tr, columns, lang, func(done, total int) {
		if total > 0 {
			fmt.Fprintf(stderr, "\rTranslating... %d/%d (%d%%)", done, total, done*100/total)
		}
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(stderr)

	for _, name := range res.Missing {
		fmt.Fprintf(stderr, "⚠️ Column %q not found, skipped\n", name)
	}
	for name, label := range res.Labels {
		fmt.Fprintf(stderr, "🏷️ %s → %s\n", name, label)
	}
	fmt.Fprintf(stderr, "✅ %d translated, %d skipped, %d failed (%s)\n",
		res.Translated, res.Skipped, res.Failed, translator.LanguageName(lang))
	return res, nil
}

// ── chart ────────────────────────────────────────────────────────────────

func newChartCmd(a *app) *cobra.Command {
	var (
		kind string
		req  chart.Request
	)
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Build a chart specification as JSON",
		Long: `Build a chart specification as JSON.

Kinds:
  histogram, box, bar, text_length   --column (box: optional --group)
  scatter                            --x --y, optional --color
  line                               --date --value
  heatmap                            all numeric columns`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			req.Kind = chart.Kind(kind)
			res := chart.Build(req, t)
			if res.Err != "" {
				return errors.New(res.Err)
			}
			if res.Spec.Placeholder {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Spec.Message)
			}
			return writeJSON(cmd.OutOrStdout(), res.Spec)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(chart.KindHistogram), "Chart kind")
	cmd.Flags().StringVar(&req.Column, "column", "", "Column for single-column charts")
	cmd.Flags().StringVar(&req.X, "x", "", "X column (scatter)")
	cmd.Flags().StringVar(&req.Y, "y", "", "Y column (scatter)")
	cmd.Flags().StringVar(&req.Color, "color", "", "Color column (scatter)")
	cmd.Flags().StringVar(&req.GroupBy, "group", "", "Group-by column (box)")
	cmd.Flags().StringVar(&req.Date, "date", "", "Date column (line)")
	cmd.Flags().StringVar(&req.Value, "value", "", "Value column (line)")
	cmd.Flags().IntVar(&req.TopN, "top", 10, "Number of values (bar)")
	return cmd
}

// ── export ───────────────────────────────────────────────────────────────

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		out     string
		columns []string
		lang    string
		name    string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the table and its analysis (csv, report, xlsx, sqlite)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			t, err := a.loadTable(args[0])
			if err != nil {
				return err
			}

			sess := session.New("cli")
			sess.SetTable(filepath.Base(args[0]), t, a.settings.Analyzer)
			if len(columns) > 0 {
				if lang == "" {
					lang = a.settings.Translator.TargetLanguage
				}
				if _, err := a.translate(cmd, sess, columns, lang); err != nil {
					return err
				}
			}
			current, _ := sess.Current()
			profile, _ := sess.Profile()

			if out == "" {
				out = export.FileName(f)
			}
			switch f {
			case export.FormatSQLite:
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				}
				err = export.SQLite(cmd.Context(), out, current, profile, export.SQLiteOptions{
					TableName:  name,
					SourceName: filepath.Base(args[0]),
				})
			default:
				err = withOutput(cmd, out, func(w io.Writer) error {
					switch f {
					case export.FormatCSV:
						return export.CSV(w, current)
					case export.FormatXLSX:
						return export.XLSX(w, current, profile, sess.Labels())
					default:
						return export.Report(w, profile)
					}
				})
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "📄 %s written to %s\n", f, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "Export format: csv, report, xlsx, sqlite")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default depends on format; \"-\" for stdout)")
	cmd.Flags().StringSliceVar(&columns, "translate", nil, "Translate these columns before exporting")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language for --translate")
	cmd.Flags().StringVar(&name, "table", "", "SQLite data table name (default: file name)")
	return cmd
}

// ── languages ────────────────────────────────────────────────────────────

func newLanguagesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderLanguages(cmd.OutOrStdout(), translator.SupportedLanguages)
			return nil
		},
	}
}

// ── detect ───────────────────────────────────────────────────────────────

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Detect the language of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := a.settings.Translator.NewTranslator(cmd.Context(), a.log, stats.NOP)
			fmt.Fprintln(cmd.OutOrStdout(), tr.Detect(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

// ── serve ────────────────────────────────────────────────────────────────

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := a.settings.Server
			if addr == "" {
				addr = s.Addr
			}
			store, err := session.NewStore(s.MaxSessions, a.log.Child("sessions"), stats.NOP)
			if err != nil {
				return err
			}
			tr := a.settings.Translator.NewTranslator(ctx, a.log.Child("translator"), stats.NOP)
			a.log.Infon("translator status", logger.NewStringField("status", tr.Info()))

			srv := server.New(store, tr,
				server.WithLogger(a.log.Child("server")),
				server.WithAnalyzerOptions(a.settings.Analyzer),
				server.WithLoadOptions(a.settings.Table.LoadOptions()...),
				server.WithMaxUploadSize(s.MaxUploadSize),
				server.WithDefaultLanguage(a.settings.Translator.TargetLanguage),
			)
			if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: Server.addr)")
	return cmd
}
