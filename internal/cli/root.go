// Package cli wires the command line to the core engine: it opens the
// source, decides the parse depth, runs the query pipeline, and hands the
// resulting index arrays to a renderer or the pager. All core errors
// surface here; the core itself never logs or exits.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AveryClapp/glance/internal/output"
	"github.com/AveryClapp/glance/internal/pager"
	"github.com/AveryClapp/glance/internal/query"
	"github.com/AveryClapp/glance/internal/reader"
	"github.com/AveryClapp/glance/internal/schema"
)

// defaultDumpRows caps non-interactive table output when --head is not given.
const defaultDumpRows = 50

type options struct {
	head       int
	tail       int
	schemaMode bool
	countMode  bool
	where      []string
	ignoreCase bool
	logic      string
	selectExpr string
	sortCol    string
	sortDesc   string
}

// NewRootCmd builds the glance command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "glance [file.csv | -]",
		Short: "Instant, low-memory inspection of delimited text files",
		Long: `glance memory-maps a delimited text file (or captures stdin), detects the
delimiter, infers per-column types, and answers filter/sort/select queries
without copying the data.

Filter operators: ==, !=, >, <, >=, <=, contains, starts_with, ends_with
Example: glance data.csv --where "age > 30" --where "name contains Al"
Stdin:   cat data.csv | glance - --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.head, "head", "n", -1, "show first N rows (default 50)")
	f.IntVarP(&opts.tail, "tail", "t", -1, "show last N rows")
	f.BoolVarP(&opts.schemaMode, "schema", "s", false, "output inferred schema as JSON")
	f.StringArrayVarP(&opts.where, "where", "w", nil, "filter rows (repeatable)")
	f.BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "case-insensitive filtering")
	f.StringVar(&opts.logic, "logic", "and", "filter logic: and, or")
	f.StringVar(&opts.selectExpr, "select", "", "show only the named columns (comma-separated)")
	f.StringVar(&opts.sortCol, "sort", "", "sort by column (ascending)")
	f.StringVar(&opts.sortDesc, "sort-desc", "", "sort by column (descending)")
	f.BoolVar(&opts.countMode, "count", false, "output only the count of matching rows")
	f.String("format", defaultFormat, "output format: table, csv, tsv, json")
	f.Bool("no-pager", false, "disable the interactive pager")
	f.Bool("verbose", false, "debug diagnostics on stderr")
	f.Int("sample-lines", defaultSampleLines, "lines sampled for delimiter detection")
	f.Int("sample-size", defaultSampleSize, "rows sampled for type inference")

	return cmd
}

// Execute runs the root command once.
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func naturalIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	setupLogging(cfg.Verbose)

	switch cfg.Format {
	case "table", "csv", "tsv", "json":
	default:
		return fmt.Errorf("unknown format %q (use table, csv, tsv, json)", cfg.Format)
	}
	orLogic := false
	switch opts.logic {
	case "and":
	case "or":
		orLogic = true
	default:
		return fmt.Errorf("unknown logic %q (use 'and' or 'or')", opts.logic)
	}
	if opts.head >= 0 && opts.tail >= 0 {
		return errors.New("--head and --tail are mutually exclusive")
	}
	if opts.sortCol != "" && opts.sortDesc != "" {
		return errors.New("--sort and --sort-desc are mutually exclusive")
	}
	sortCol, sortDesc := opts.sortCol, false
	if opts.sortDesc != "" {
		sortCol, sortDesc = opts.sortDesc, true
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		// No path: fall back to stdin only when data is actually piped in.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no input: pass a file path or pipe data to stdin (see --help)")
		}
		path = "-"
	}

	r, err := reader.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	delim := reader.DetectDelimiter(r.Data(), cfg.SampleLines)
	slog.Debug("detected delimiter", "delimiter", string(delim), "bytes", r.Size())

	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := stdoutTTY && !opts.schemaMode && !opts.countMode &&
		cfg.Format == "table" && !cfg.NoPager

	// Filters, sort, tail, and the pager all need every row; a plain
	// preview only needs the head plus an exact total count.
	needsFull := interactive || len(opts.where) > 0 || sortCol != "" || opts.tail >= 0
	if needsFull {
		r.Parse(delim)
	} else {
		limit := defaultDumpRows
		if opts.head >= 0 {
			limit = opts.head
		}
		parseCount := limit
		if parseCount < cfg.SampleSize {
			parseCount = cfg.SampleSize
		}
		r.ParseHead(delim, parseCount)
	}
	slog.Debug("parsed", "full", needsFull, "rows", r.RowCount(), "total", r.TotalRows())

	if r.ColumnCount() == 0 {
		return errors.New("no columns found in file")
	}

	sch := schema.Infer(r, cfg.SampleSize)

	var colIdx []int
	if opts.selectExpr != "" {
		colIdx, err = query.ResolveColumns(opts.selectExpr, r)
		if err != nil {
			return err
		}
	}

	var rowIdx []int // nil = all parsed rows in order
	matchCount := r.TotalRows()

	if len(opts.where) > 0 {
		filters := make([]query.Filter, 0, len(opts.where))
		for _, expr := range opts.where {
			f, err := query.ParseFilter(expr)
			if err != nil {
				return err
			}
			filters = append(filters, f)
		}
		rowIdx, err = query.Apply(filters, r, sch, opts.ignoreCase, orLogic)
		if err != nil {
			return err
		}
		matchCount = len(rowIdx)
	}

	if sortCol != "" {
		if rowIdx == nil {
			rowIdx = naturalIndices(r.RowCount())
		}
		if err := query.SortIndices(rowIdx, r, sch, sortCol, sortDesc); err != nil {
			return err
		}
	}

	if opts.tail >= 0 {
		if rowIdx == nil {
			rowIdx = naturalIndices(r.RowCount())
		}
		if len(rowIdx) > opts.tail {
			rowIdx = rowIdx[len(rowIdx)-opts.tail:]
		}
		matchCount = len(rowIdx)
	}

	displayTotal := r.RowCount()
	if rowIdx != nil {
		displayTotal = len(rowIdx)
	}

	maxRows := defaultDumpRows
	switch {
	case opts.head >= 0:
		maxRows = opts.head
	case opts.tail >= 0 || interactive:
		maxRows = displayTotal
	}

	v := output.View{
		Reader:     r,
		Schema:     sch,
		RowIdx:     rowIdx,
		ColIdx:     colIdx,
		MaxRows:    maxRows,
		MatchCount: matchCount,
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.countMode:
		_, err := fmt.Fprintf(out, "%d\n", matchCount)
		return err
	case opts.schemaMode:
		return output.RenderSchemaJSON(out, sch, colIdx, matchCount, r.Size())
	case cfg.Format == "csv":
		return output.RenderCSV(out, v, ',')
	case cfg.Format == "tsv":
		return output.RenderCSV(out, v, '\t')
	case cfg.Format == "json":
		return output.RenderJSON(out, v)
	}

	rowsToShow := displayTotal
	if rowsToShow > maxRows {
		rowsToShow = maxRows
	}
	termH := 24
	if stdoutTTY {
		if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && h > 0 {
			termH = h
		}
	}

	if interactive && rowsToShow > termH-6 {
		// Head limiting truncates the index set before paging.
		if opts.head >= 0 && displayTotal > maxRows {
			if rowIdx == nil {
				rowIdx = naturalIndices(maxRows)
			} else {
				rowIdx = rowIdx[:maxRows]
			}
		}
		return pager.Run(r, sch, rowIdx, colIdx, matchCount)
	}

	return output.RenderTable(out, v)
}
