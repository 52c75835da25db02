package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"assetline/internal/config"
	"assetline/internal/db"
	"assetline/internal/domain"
	"assetline/internal/engine"
	"assetline/internal/metrics"
	"assetline/internal/report"
	"assetline/internal/seed"
	"assetline/internal/server"
	"assetline/internal/snapshot"
	"assetline/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "al",
	Short: "Assetline CLI",
	Long: `Assetline tracks IT assets through their compliance verification lifecycle.
Core concepts:
- Workspace: your .assetline directory holding the snapshot database; assetline.yml tunes intervals and webhooks.
- Assets: the equipment under management; posture is verified, pending, flagged, or retired.
- Verifications: immutable evidence-collection records; a pass certifies the asset for the configured interval, a failure flags it.
- Tasks: scheduled verification work; a passed verification closes the oldest open task, a failure escalates every open one to overdue.
- Activities: a bounded audit log of what happened, newest first.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ASSETLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("performer", "", "person id performing the operation")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("performer", rootCmd.PersistentFlags().Lookup("performer"))
}

func registerCommands() {
	rootCmd.AddCommand(assetCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(peopleCmd())
	rootCmd.AddCommand(locationCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
}

func assetCmd() *cobra.Command {
	asset := &cobra.Command{
		Use:   "asset",
		Short: "Manage assets",
		Long:  "Assets carry a compliance posture derived from their verification history. Register them, keep their details current, and record verification outcomes against them.",
	}
	asset.AddCommand(assetListCmd())
	asset.AddCommand(assetShowCmd())
	asset.AddCommand(assetRegisterCmd())
	asset.AddCommand(assetUpdateCmd())
	asset.AddCommand(assetVerifyCmd())
	return asset
}

func assetListCmd() *cobra.Command {
	var status, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var assets []domain.Asset
				for _, a := range e.Snapshot().Assets {
					if status != "" && string(a.Status) != status {
						continue
					}
					if category != "" && a.Category != category {
						continue
					}
					assets = append(assets, a)
				}
				if viper.GetBool("json") {
					return printJSON(assets)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Tag", "Name", "Status", "Risk", "Next Due"})
				for _, a := range assets {
					tw.AppendRow(table.Row{a.ID, a.AssetTag, a.Name, a.Status, a.RiskRating, a.NextDue})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (verified, pending, flagged, retired)")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	return cmd
}

func assetShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an asset with its verification history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, ok := e.Snapshot().Asset(id)
				if !ok {
					return fmt.Errorf("asset %s not found", id)
				}
				return printJSONOrTable(a)
			})
		},
	}
	return cmd
}

func assetRegisterCmd() *cobra.Command {
	var asset domain.Asset
	var risk string
	var tags []string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asset.LocationID == "" {
				return fmt.Errorf("--location required")
			}
			asset.RiskRating = domain.RiskRating(risk)
			asset.Tags = tags
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res := e.RegisterAsset(asset)
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&asset.Name, "name", "", "asset name")
	cmd.Flags().StringVar(&asset.AssetTag, "tag", "", "asset tag (generated if omitted)")
	cmd.Flags().StringVar(&asset.Category, "category", "", "category (laptop, server, ...)")
	cmd.Flags().StringVar(&asset.OwnerID, "owner", "", "owner person id")
	cmd.Flags().StringVar(&asset.LocationID, "location", "", "location id")
	cmd.Flags().StringVar(&risk, "risk", "medium", "risk rating (low, medium, high)")
	cmd.Flags().StringVar(&asset.SerialNumber, "serial", "", "serial number")
	cmd.Flags().StringVar(&asset.PurchaseDate, "purchased", "", "purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&asset.WarrantyExpiry, "warranty", "", "warranty expiry (YYYY-MM-DD)")
	cmd.Flags().StringVar(&asset.CostCenter, "cost-center", "", "cost center")
	cmd.Flags().StringArrayVar(&tags, "tag-label", []string{}, "free-form tag (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func assetUpdateCmd() *cobra.Command {
	var name, category, owner, location, risk, serial, costCenter, status string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update asset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, ok := e.Snapshot().Asset(id)
				if !ok {
					return fmt.Errorf("asset %s not found", id)
				}
				if cmd.Flags().Changed("name") {
					a.Name = name
				}
				if cmd.Flags().Changed("category") {
					a.Category = category
				}
				if cmd.Flags().Changed("owner") {
					a.OwnerID = owner
				}
				if cmd.Flags().Changed("location") {
					a.LocationID = location
				}
				if cmd.Flags().Changed("risk") {
					a.RiskRating = domain.RiskRating(risk)
				}
				if cmd.Flags().Changed("serial") {
					a.SerialNumber = serial
				}
				if cmd.Flags().Changed("cost-center") {
					a.CostCenter = costCenter
				}
				if cmd.Flags().Changed("status") {
					a.Status = domain.AssetStatus(status)
				}
				if !e.UpdateAsset(a) {
					return fmt.Errorf("asset %s not found", id)
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "asset name")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&owner, "owner", "", "owner person id")
	cmd.Flags().StringVar(&location, "location", "", "location id")
	cmd.Flags().StringVar(&risk, "risk", "", "risk rating (low, medium, high)")
	cmd.Flags().StringVar(&serial, "serial", "", "serial number")
	cmd.Flags().StringVar(&costCenter, "cost-center", "", "cost center")
	cmd.Flags().StringVar(&status, "status", "", "posture override (verified, pending, flagged, retired)")
	return cmd
}

func assetVerifyCmd() *cobra.Command {
	var outcome, date, notes, issues string
	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Record a verification outcome",
		Long:  "Records evidence for an asset. A pass certifies it and closes the oldest open task; a failure flags it and escalates every open task to overdue.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			performer := viper.GetString("performer")
			if performer == "" {
				return fmt.Errorf("--performer required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rec, ok := e.RecordVerification(engine.VerificationInput{
					AssetID:       id,
					Date:          date,
					Outcome:       domain.VerificationOutcome(outcome),
					PerformedByID: performer,
					Notes:         notes,
					Issues:        issues,
				})
				if !ok {
					return fmt.Errorf("asset %s not found", id)
				}
				return printJSONOrTable(rec)
			})
		},
	}
	cmd.Flags().StringVar(&outcome, "status", "", "outcome (passed, failed, in-progress)")
	cmd.Flags().StringVar(&date, "date", "", "verification date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&issues, "issues", "", "comma-separated issue list")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage verification tasks",
	}
	task.AddCommand(taskListCmd())
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskStatusCmd())
	return task
}

func taskListCmd() *cobra.Command {
	var status, assetID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var tasks []domain.VerificationTask
				for _, t := range e.Snapshot().Tasks {
					if status != "" && string(t.Status) != status {
						continue
					}
					if assetID != "" && t.AssetID != assetID {
						continue
					}
					tasks = append(tasks, t)
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Asset", "Due", "Status", "Priority", "Assignee"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.AssetID, t.DueDate, t.Status, t.Priority, t.AssignedToID})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (scheduled, in-progress, completed, overdue)")
	cmd.Flags().StringVar(&assetID, "asset", "", "asset id filter")
	return cmd
}

func taskAddCmd() *cobra.Command {
	var task domain.VerificationTask
	var priority string
	var checklist []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a verification task",
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Priority = domain.TaskPriority(priority)
			task.Checklist = checklist
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if _, ok := e.Snapshot().Asset(task.AssetID); !ok {
					return fmt.Errorf("asset %s not found", task.AssetID)
				}
				res := e.AddTask(task)
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&task.AssetID, "asset", "", "asset id")
	cmd.Flags().StringVar(&task.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&task.AssignedToID, "assignee", "", "assignee person id")
	cmd.Flags().StringVar(&priority, "priority", "medium", "priority (low, medium, high)")
	cmd.Flags().StringArrayVar(&checklist, "check", []string{}, "checklist item (repeatable)")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func taskStatusCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Change task status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if !e.SetTaskStatus(id, domain.TaskStatus(status)) {
					return fmt.Errorf("task %s not found", id)
				}
				t, _ := e.Snapshot().Task(id)
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status (scheduled, in-progress, completed, overdue)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func peopleCmd() *cobra.Command {
	people := &cobra.Command{
		Use:   "people",
		Short: "Directory of owners and verifiers",
	}
	people.AddCommand(peopleListCmd())
	return people
}

func peopleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				people := e.Snapshot().People
				if viper.GetBool("json") {
					return printJSON(people)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Role", "Department", "Pending", "SLA Risk"})
				for _, p := range people {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Role, p.Department, p.Workload.Pending, p.Workload.SLARisk})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func locationCmd() *cobra.Command {
	loc := &cobra.Command{
		Use:   "location",
		Short: "Sites holding assets",
	}
	loc.AddCommand(locationListCmd())
	return loc
}

func locationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				locations := e.Snapshot().Locations
				if viper.GetBool("json") {
					return printJSON(locations)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Code", "Name", "Region", "Assets"})
				for _, l := range locations {
					tw.AppendRow(table.Row{l.ID, l.Code, l.Name, l.Region, len(l.AssetIDs)})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func activityCmd() *cobra.Command {
	act := &cobra.Command{
		Use:   "activity",
		Short: "Activity log",
	}
	act.AddCommand(activityListCmd())
	act.AddCommand(activityLogCmd())
	return act
}

func activityListCmd() *cobra.Command {
	var severity string
	var n int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activity, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var entries []domain.ActivityEntry
				for _, a := range e.Snapshot().Activities {
					if severity != "" && string(a.Severity) != severity {
						continue
					}
					entries = append(entries, a)
					if n > 0 && len(entries) >= n {
						break
					}
				}
				if viper.GetBool("json") {
					return printJSON(entries)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Severity", "Title", "Asset", "Created"})
				for _, a := range entries {
					tw.AppendRow(table.Row{a.ID, a.Severity, a.Title, a.AssetID, a.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&severity, "severity", "", "severity filter (info, warning, critical)")
	cmd.Flags().IntVar(&n, "n", 20, "max entries")
	return cmd
}

func activityLogCmd() *cobra.Command {
	var entry domain.ActivityEntry
	var severity string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log an activity entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.Severity = domain.Severity(severity)
			entry.PersonID = viper.GetString("performer")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res := e.LogActivity(entry)
				return printJSONOrTable(res)
			})
		},
	}
	cmd.Flags().StringVar(&entry.Type, "type", "asset", "entry type (verification, asset, incident)")
	cmd.Flags().StringVar(&entry.Title, "title", "", "title")
	cmd.Flags().StringVar(&entry.Description, "description", "", "description")
	cmd.Flags().StringVar(&entry.AssetID, "asset", "", "related asset id")
	cmd.Flags().StringVar(&severity, "severity", "info", "severity (info, warning, critical)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show compliance overview",
		Long:  "The dashboard numbers: posture counts, compliance rate, task pressure, and recent evidence volume.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				overview := metrics.ComputeOverview(e.Snapshot(), e.Now(), e.Config.Verification.DueSoonDays)
				if viper.GetBool("json") {
					return printJSON(overview)
				}
				fmt.Printf("Assets: %d (%d verified, %d pending, %d flagged)\n",
					overview.TotalAssets, overview.Verified, overview.Pending, overview.Flagged)
				fmt.Printf("Compliance rate: %d%%\n", overview.ComplianceRate)
				fmt.Printf("High risk: %d\n", overview.HighRisk)
				fmt.Printf("Tasks: %d due soon, %d overdue\n", overview.DueSoon, overview.Overdue)
				fmt.Printf("Evidence collected (30d): %d\n", overview.Evidence)
				return nil
			})
		},
	}
	return cmd
}

func reportCmd() *cobra.Command {
	rep := &cobra.Command{
		Use:   "report",
		Short: "Reporting",
	}
	rep.AddCommand(reportExportCmd())
	return rep
}

func reportExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the verification report artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				doc := report.Build(e.Snapshot(), e.Now(), e.Config.Report.SampleSize)
				path := filepath.Join(outDir, report.Filename(e.Now()))
				if err := report.WriteFile(path, doc); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"path": path, "metrics": doc.Metrics})
				}
				fmt.Printf("Report written to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate assetline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err == nil {
				err = cfg.Validate()
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default assetline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := snapshot.EnsureSchema(cmd.Context(), conn); err != nil {
				return err
			}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			state, err := snapshot.Load(cmd.Context(), conn, seed.Default(time.Now()))
			if err != nil {
				fmt.Printf("warning: snapshot load failed, starting from defaults: %v\n", err)
			}
			e := engine.New(store.New(state), conn, cfg)
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Assetline API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return e.Flush(flushCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

// withEngine opens the workspace database, loads the latest snapshot
// (falling back to the starter dataset), runs fn, and flushes the
// resulting state back so CLI mutations survive process exit.
func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(workspace)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := snapshot.EnsureSchema(ctx, conn); err != nil {
		return err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	state, err := snapshot.Load(ctx, conn, seed.Default(time.Now()))
	if err != nil {
		fmt.Printf("warning: snapshot load failed, starting from defaults: %v\n", err)
	}
	e := engine.New(store.New(state), conn, cfg)
	if err := fn(ctx, e); err != nil {
		return err
	}
	return e.Flush(ctx)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
