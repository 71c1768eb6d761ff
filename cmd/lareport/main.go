// Package main provides the CLI entrypoint for lareport.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/dataset"
	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/render"
	"github.com/verte-zerg/lareport/internal/report"
	"github.com/verte-zerg/lareport/internal/stats"
	"github.com/verte-zerg/lareport/internal/store"
	"github.com/verte-zerg/lareport/internal/viewer"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatPDF  = "pdf"
)

var (
	dbPath     string
	configPath string

	reportCourse    int64
	reportMod       string
	reportPage      string
	reportFormat    string
	reportOut       string
	reportWidth     int
	reportColor     bool
	reportThreshold int
	reportTop       int
	reportRounding  string

	viewCourse int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lareport",
		Short:         "Course usage reports: ranked tables and share charts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "TOML config path")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newCoursesCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Render one report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().Int64Var(&reportCourse, "course", 0, "course id")
	cmd.Flags().StringVar(&reportMod, "mod", "", "limit activities to one module type")
	cmd.Flags().StringVar(&reportPage, "page", "", "report sub-page (e.g. all)")
	cmd.Flags().StringVar(&reportFormat, "format", formatText, "output format: text, json, yaml or pdf")
	cmd.Flags().StringVar(&reportOut, "out", "", "output file (default: stdout; pdf defaults to the export directory)")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "text width (default: terminal width)")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored text output")
	addTuningFlags(cmd)
	return cmd
}

func addTuningFlags(cmd *cobra.Command) {
	defaults := stats.DefaultOptions()
	cmd.Flags().IntVar(&reportThreshold, "threshold", defaults.Threshold, "privacy threshold: buckets below it are hidden")
	cmd.Flags().IntVar(&reportTop, "top", defaults.Top, "rows in top-N tables")
	cmd.Flags().StringVar(&reportRounding, "rounding", string(defaults.Rounding), "percentage rounding: independent or largest-remainder")
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case formatText, formatJSON, formatYAML, formatPDF:
	default:
		return fmt.Errorf("invalid --format %q (want text, json, yaml or pdf)", reportFormat)
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	name := args[0]
	params := report.Params{}
	if cmd.Flags().Changed("course") {
		params[report.ParamCourse] = strconv.FormatInt(reportCourse, 10)
	}
	if reportMod != "" {
		params[report.ParamMod] = reportMod
	}

	reg := report.NewRegistry(st, settings)
	blocks, err := reg.Run(context.Background(), name, reportPage, params)
	if err != nil {
		return fmt.Errorf("failed to run report %s: %w", name, err)
	}
	doc := render.Document{Report: name, Page: reportPage, Params: params, Blocks: blocks}
	showMore := settings.Catalog.String("show_more")

	out := reportOut
	if out == "" && reportFormat == formatPDF {
		out = filepath.Join(config.DefaultExportDir(), exportName(doc))
	}
	w, done, err := openOutput(cmd.OutOrStdout(), out)
	if err != nil {
		return err
	}

	switch reportFormat {
	case formatJSON:
		err = render.WriteJSON(w, doc)
	case formatYAML:
		err = render.WriteYAML(w, doc)
	case formatPDF:
		err = render.WritePDF(w, doc, render.PDFOptions{ShowMore: showMore})
	default:
		err = render.RenderText(w, blocks, render.TextOptions{Width: reportWidth, ForceColor: reportColor, ShowMore: showMore})
	}
	if cerr := done(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output: %w", cerr)
	}
	if err != nil {
		return err
	}
	if out != "" {
		logErrf("Wrote %s\n", out)
	}
	return nil
}

func exportName(doc render.Document) string {
	parts := []string{doc.Report}
	if course := doc.Params[report.ParamCourse]; course != "" {
		parts = append(parts, course)
	}
	if doc.Page != "" {
		parts = append(parts, doc.Page)
	}
	return strings.Join(parts, "-") + ".pdf"
}

// openOutput returns stdout when path is empty, else a created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}

func newReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List available reports and their parameters",
		Args:  cobra.NoArgs,
		RunE:  runReportsCmd,
	}
}

func runReportsCmd(cmd *cobra.Command, _ []string) error {
	reg := report.NewRegistry(nil, config.DefaultSettings())
	for _, name := range reg.Names() {
		rep, err := reg.Get(name)
		if err != nil {
			return err
		}
		params := make([]string, 0, len(rep.Parameters()))
		for _, p := range rep.Parameters() {
			params = append(params, fmt.Sprintf("%s (%s, %s)", p.Name, p.Type, p.Requirement))
		}
		line := fmt.Sprintf("%-12s %s", name, strings.Join(params, ", "))
		if pages := rep.Pages(); len(pages) > 0 {
			line += "  pages: " + strings.Join(pages, ", ")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List imported courses",
		Args:  cobra.NoArgs,
		RunE:  runCoursesCmd,
	}
}

func runCoursesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyDatabaseConfig(cmd, fileCfg)
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	ids, err := st.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	if len(ids) == 0 {
		logErrf("No courses imported yet. Run lareport import <file>.\n")
		return nil
	}
	for _, id := range ids {
		learners, err := st.CountLearners(ctx, id, model.RoleStudent)
		if err != nil {
			return fmt.Errorf("failed to count learners of course %d: %w", id, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "course %d: %s students\n", id, humanize.Comma(int64(learners))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse reports interactively",
		Args:  cobra.NoArgs,
		RunE:  runViewCmd,
	}
	cmd.Flags().Int64Var(&viewCourse, "course", 0, "course id (default: first imported course)")
	addTuningFlags(cmd)
	return cmd
}

func runViewCmd(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("course") && viewCourse <= 0 {
		return fmt.Errorf("%w: --course must be a positive integer", report.ErrInvalidParam)
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if viewCourse <= 0 {
		viewCourse, err = firstCourse(context.Background(), st)
		if err != nil {
			return err
		}
	}

	reg := report.NewRegistry(st, settings)
	browser := viewer.NewModel(reg, viewCourse, settings.Catalog.String("show_more"))
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run report viewer: %w", err)
	}
	return nil
}

// firstCourse picks the lowest imported course id.
func firstCourse(ctx context.Context, st *store.Store) (int64, error) {
	ids, err := st.ListCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list courses: %w", err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no course imported, pass --course or run import", report.ErrInvalidParam)
	}
	return ids[0], nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML, JSON or TOML dataset into the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyDatabaseConfig(cmd, fileCfg)
	data, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	for _, course := range data.Courses {
		if err := st.ImportCourse(ctx, course); err != nil {
			return fmt.Errorf("failed to import course %d: %w", course.ID, err)
		}
		hits := 0
		for _, a := range course.Activities {
			hits += a.Hits
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "course %d: %d activities (%s hits), %d learners\n",
			course.ID, len(course.Activities), humanize.Comma(int64(hits)), len(course.Learners))
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadSettings merges the config file with explicitly set tuning flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "threshold", &reportThreshold, fileCfg.Report.Threshold)
	applyIntConfig(cmd, "top", &reportTop, fileCfg.Report.Top)
	applyStringConfig(cmd, "rounding", &reportRounding, fileCfg.Report.Rounding)
	applyDatabaseConfig(cmd, fileCfg)

	fileCfg.Report.Threshold = &reportThreshold
	fileCfg.Report.Top = &reportTop
	fileCfg.Report.Rounding = &reportRounding
	settings, err := fileCfg.Resolve()
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func applyDatabaseConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Report.Database)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := stats.DefaultOptions()
	return fmt.Sprintf(`# lareport configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# threshold = %d                 # Buckets with fewer hits are hidden
# top = %d                       # Rows in top-N tables
# rounding = %q        # "independent" or "largest-remainder"
# label-shift = 16               # Vertical offset of chart category labels
# database = %q

[colors]
# fallback = %q            # Chart color for unknown module types
# fallback-text = %q           # Table bar color for unknown module types
# cyclic = ["#66b5ab", "#F26522", "#ffda6e", "#A9CF54", "#EA030E"]

# [colors.keyed]
# quiz = "#A9CF54"

# [colors.keyed-text]
# quiz = "green"

# [labels.groups.browser]
# chrome = "Chrome"

# [labels.strings]
# most_used_activities = "Top activities"
`,
		defaults.Threshold,
		defaults.Top,
		string(defaults.Rounding),
		config.DefaultDBPath(),
		stats.FallbackColor,
		stats.FallbackTextColor,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
