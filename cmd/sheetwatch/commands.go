package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetwatch-go/internal/server"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/config"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/output"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/poller"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the active tab and serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(ctx, func(ctx context.Context, a *app) error {
				if port == 0 {
					port = a.cfg.Server.Port
				}
				p := poller.New(a.dash,
					poller.WithInterval(a.cfg.Poll.Interval.Duration),
					poller.WithLogger(a.logger.Named("poller")))
				srv := server.New(a.dash, p, a.logger.Named("http"), a.cfg.Server.DevMode)

				pollErr := make(chan error, 1)
				go func() { pollErr <- p.Run(ctx) }()

				err := srv.Run(ctx, fmt.Sprintf(":%d", port))
				stop()
				<-pollErr
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: from config)")
	return cmd
}

func newScanCmd() *cobra.Command {
	var (
		sheetName string
		noCache   bool
	)
	cmd := &cobra.Command{
		Use:   "scan [file.csv|file.xlsx]",
		Short: "Locate product blocks in a local sheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", inputPath)
			}
			grid, err := readGrid(inputPath, sheetName)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				var result parser.ScanResult
				if noCache {
					params := a.cfg.ExtractParams()
					result = parser.NewScanner(nil,
						parser.WithLogger(a.logger),
						parser.WithExtractParams(params)).Products(grid)
				} else {
					result = a.dash.ScanGrid(ctx, grid)
				}
				if result.CacheErr != nil {
					a.logger.Warn("anchor cache not updated", zap.Error(result.CacheErr))
				}
				a.logger.Info("scan finished",
					zap.Int("products", len(result.Products)),
					zap.String("source", string(result.Source)))

				jsonData, err := output.ProductsToJSON(result.Products, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				return writeOutput(cmd, jsonData)
			})
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read from an xlsx file (default: first sheet)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Scan the whole grid without reading or writing the anchor cache")
	return cmd
}

func readGrid(path, sheetName string) (models.Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.GridFromWorkbook(f, sheetName)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parser.ParseCSV(string(data)), nil
	}
}

func newFetchCmd() *cobra.Command {
	var (
		expand   bool
		typed    bool
		rowsOnly bool
		rangeStr string
	)
	cmd := &cobra.Command{
		Use:   "fetch [tab]",
		Short: "Fetch one tab now and print its cached view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab := args[0]
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if rangeStr != "" {
					patch, ok := parser.ConfigFromRange(tab, rangeStr)
					if !ok {
						return fmt.Errorf("invalid range: %s", rangeStr)
					}
					if _, err := a.dash.UpdateSheetConfig(ctx, tab, patch); err != nil {
						return err
					}
				}
				if err := a.dash.Refresh(ctx, tab, expand); err != nil {
					return err
				}
				snap, err := a.dash.Tab(ctx, tab)
				if err != nil {
					return err
				}
				if (typed || rowsOnly) && snap.Table == nil {
					return fmt.Errorf("tab %s has no table rows", tab)
				}
				if typed {
					return writeJSON(cmd, parser.TypedRows(*snap.Table))
				}
				if rowsOnly {
					jsonData, err := output.TableRowsToJSON(*snap.Table, pretty)
					if err != nil {
						return fmt.Errorf("serialization failed: %w", err)
					}
					return writeOutput(cmd, jsonData)
				}
				jsonData, err := output.TabToJSON(&snap, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				return writeOutput(cmd, jsonData)
			})
		},
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "Look a few rows past the configured range and keep any new rows")
	cmd.Flags().BoolVar(&rowsOnly, "rows", false, "Print only the table rows, keys in sheet column order")
	cmd.Flags().BoolVar(&typed, "typed", false, "Print the rows with numeric cells parsed instead of the tab view")
	cmd.Flags().StringVar(&rangeStr, "range", "", "Set the tab range before fetching, e.g. A1:J20")
	return cmd
}

func newSetURLCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "set-url [sheet-url]",
		Short: "Switch to another spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				mem, err := a.dash.SetSheetURL(ctx, args[0])
				if err != nil {
					return err
				}
				if save {
					a.cfg.Sheet.URL = args[0]
					if err := config.Save(a.configPath, a.cfg); err != nil {
						return fmt.Errorf("save config: %w", err)
					}
				}
				return writeJSON(cmd, map[string]interface{}{
					"sheetId":    mem.SheetID,
					"urlHistory": mem.URLHistory,
				})
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Also write the URL to the config file")
	return cmd
}

func newTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "Print the cached view of every tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				tabs, err := a.dash.Tabs(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd, tabs)
			})
		},
	}
}
