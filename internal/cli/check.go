package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"turbo-ncu/internal/adapters"
	"turbo-ncu/internal/app"
	"turbo-ncu/internal/types"
)

type checkOptions struct {
	Upgrade     bool
	Target      string
	Filter      string
	Reject      string
	Dep         []string
	CacheFile   string
	CacheTTL    int
	Concurrency int
	Registry    string
	Pre         bool
	TimeoutMs   int
	Retries     int
	JSON        bool
	JSONAll     bool
	ErrorLevel  int
	PackageFile string
	ConfigFile  string
	MetricsFile string
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check dependencies for newer versions (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}
	addCheckFlags(cmd, &opts)
	return cmd
}

func addCheckFlags(cmd *cobra.Command, opts *checkOptions) {
	cmd.Flags().BoolVarP(&opts.Upgrade, "upgrade", "u", false, "Overwrite package file with upgraded versions")
	cmd.Flags().StringVarP(&opts.Target, "target", "t", string(types.DefaultTarget), "Target version: latest, minor, patch, semver")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Include only package names matching (list, glob or /regex/)")
	cmd.Flags().StringVarP(&opts.Reject, "reject", "x", "", "Exclude package names matching (list, glob or /regex/)")
	cmd.Flags().StringSliceVar(&opts.Dep, "dep", nil, "Dependency types to check: prod, dev, peer, optional")
	cmd.Flags().StringVar(&opts.CacheFile, "cache-file", "", "Cache file path (default ~/"+types.CacheFileName+")")
	cmd.Flags().IntVar(&opts.CacheTTL, "cache-ttl", int(types.DefaultCacheTTL/time.Second), "Cache TTL in seconds")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", types.DefaultConcurrency, "Max concurrent registry requests")
	cmd.Flags().StringVar(&opts.Registry, "registry", types.DefaultRegistryURL, "npm registry URL")
	cmd.Flags().BoolVar(&opts.Pre, "pre", false, "Include prerelease versions")
	cmd.Flags().IntVar(&opts.TimeoutMs, "timeout", int(types.DefaultTimeout/time.Millisecond), "Request timeout in milliseconds")
	cmd.Flags().IntVar(&opts.Retries, "retries", types.DefaultRetries, "Retries per package after the first attempt")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output name to new range JSON")
	cmd.Flags().BoolVar(&opts.JSONAll, "json-all", false, "Output all update records as JSON")
	cmd.Flags().IntVar(&opts.ErrorLevel, "error-level", 1, "Exit with 1 when updates are found if set to 2")
	cmd.Flags().StringVar(&opts.PackageFile, "package-file", "", "Package file path (default ./package.json)")
	cmd.Flags().StringVar(&opts.ConfigFile, "configFile", "", "Project config file (default .ncurc.{json,yml,yaml})")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to path")

	_ = viper.BindPFlag("upgrade", cmd.Flags().Lookup("upgrade"))
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("filter", cmd.Flags().Lookup("filter"))
	_ = viper.BindPFlag("reject", cmd.Flags().Lookup("reject"))
	_ = viper.BindPFlag("dep", cmd.Flags().Lookup("dep"))
	_ = viper.BindPFlag("cache_file", cmd.Flags().Lookup("cache-file"))
	_ = viper.BindPFlag("cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("pre", cmd.Flags().Lookup("pre"))
	_ = viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("retries", cmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("json_all", cmd.Flags().Lookup("json-all"))
	_ = viper.BindPFlag("error_level", cmd.Flags().Lookup("error-level"))
	_ = viper.BindPFlag("package_file", cmd.Flags().Lookup("package-file"))
	_ = viper.BindPFlag("config_file", cmd.Flags().Lookup("configFile"))
	_ = viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	service := newAppService()
	metrics := adapters.NewPrometheusMetrics()
	service.Metrics = metrics

	configResult, err := service.LoadProjectConfig(ctx, app.LoadProjectConfigRequest{
		ConfigFile: resolveString(cmd, opts.ConfigFile, "config_file", "configFile"),
	})
	if err != nil {
		return err
	}
	if configResult.Path != "" {
		log.Debug().Str("path", configResult.Path).Msg("loaded project config")
		applyProjectConfig(cmd, configResult.Config)
	}

	resolved := resolveCheckOptions(cmd, opts)
	resolution, err := resolutionOptions(resolved)
	if err != nil {
		return err
	}
	result, err := service.Check(ctx, app.CheckRequest{
		PackageFile: resolved.PackageFile,
		Options:     resolution,
		DepTypes:    resolved.Dep,
		Filter:      resolved.Filter,
		Reject:      resolved.Reject,
		Upgrade:     resolved.Upgrade,
	})
	if err != nil {
		return err
	}
	if resolved.MetricsFile != "" {
		if err := metrics.WriteTextfile(resolved.MetricsFile); err != nil {
			return err
		}
	}
	if err := renderCheck(cmd.OutOrStdout(), resolved, result); err != nil {
		return err
	}
	if resolved.ErrorLevel == 2 && len(result.Report.Updates) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("updates available")
	}
	return nil
}

func resolveCheckOptions(cmd *cobra.Command, opts checkOptions) checkOptions {
	return checkOptions{
		Upgrade:     resolveBool(cmd, opts.Upgrade, "upgrade", "upgrade"),
		Target:      resolveString(cmd, opts.Target, "target", "target"),
		Filter:      resolveString(cmd, opts.Filter, "filter", "filter"),
		Reject:      resolveString(cmd, opts.Reject, "reject", "reject"),
		Dep:         resolveStrings(cmd, opts.Dep, "dep", "dep"),
		CacheFile:   resolveString(cmd, opts.CacheFile, "cache_file", "cache-file"),
		CacheTTL:    resolveInt(cmd, opts.CacheTTL, "cache_ttl", "cache-ttl"),
		Concurrency: resolveInt(cmd, opts.Concurrency, "concurrency", "concurrency"),
		Registry:    resolveString(cmd, opts.Registry, "registry", "registry"),
		Pre:         resolveBool(cmd, opts.Pre, "pre", "pre"),
		TimeoutMs:   resolveInt(cmd, opts.TimeoutMs, "timeout", "timeout"),
		Retries:     resolveInt(cmd, opts.Retries, "retries", "retries"),
		JSON:        resolveBool(cmd, opts.JSON, "json", "json"),
		JSONAll:     resolveBool(cmd, opts.JSONAll, "json_all", "json-all"),
		ErrorLevel:  resolveInt(cmd, opts.ErrorLevel, "error_level", "error-level"),
		PackageFile: resolveString(cmd, opts.PackageFile, "package_file", "package-file"),
		MetricsFile: resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
	}
}

// applyProjectConfig layers .ncurc values over env and config files. Flags
// set on the command line still win.
func applyProjectConfig(cmd *cobra.Command, cfg types.ProjectConfig) {
	setString := func(key string, flagName string, value *string) {
		if value != nil && !flagChanged(cmd, flagName) {
			viper.Set(key, *value)
		}
	}
	setBool := func(key string, flagName string, value *bool) {
		if value != nil && !flagChanged(cmd, flagName) {
			viper.Set(key, *value)
		}
	}
	setInt := func(key string, flagName string, value *int) {
		if value != nil && !flagChanged(cmd, flagName) {
			viper.Set(key, *value)
		}
	}
	setBool("upgrade", "upgrade", cfg.Upgrade)
	setString("target", "target", cfg.Target)
	setString("filter", "filter", cfg.Filter)
	setString("reject", "reject", cfg.Reject)
	if len(cfg.Dep) > 0 && !flagChanged(cmd, "dep") {
		viper.Set("dep", []string(cfg.Dep))
	}
	setString("cache_file", "cache-file", cfg.CacheFile)
	setInt("cache_ttl", "cache-ttl", cfg.CacheTTL)
	setInt("concurrency", "concurrency", cfg.Concurrency)
	setString("registry", "registry", cfg.Registry)
	setBool("pre", "pre", cfg.Pre)
	setBool("json", "json", cfg.JSON)
	setBool("json_all", "json-all", cfg.JSONAll)
	setInt("timeout", "timeout", cfg.Timeout)
	setInt("error_level", "error-level", cfg.ErrorLevel)
	setString("package_file", "package-file", cfg.PackageFile)
}

func resolutionOptions(opts checkOptions) (types.ResolutionOptions, error) {
	checks := []struct {
		flag  string
		value int
	}{
		{"cache-ttl", opts.CacheTTL},
		{"concurrency", opts.Concurrency},
		{"timeout", opts.TimeoutMs},
		{"retries", opts.Retries},
	}
	for _, c := range checks {
		if c.value < 0 {
			return types.ResolutionOptions{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("--%s must not be negative", c.flag))
		}
	}
	return types.ResolutionOptions{
		RegistryURL:       opts.Registry,
		Target:            types.TargetPolicy(opts.Target),
		Concurrency:       uint(opts.Concurrency),
		Timeout:           time.Duration(opts.TimeoutMs) * time.Millisecond,
		CacheFile:         opts.CacheFile,
		CacheTTL:          types.Ptr(time.Duration(opts.CacheTTL) * time.Second),
		IncludePrerelease: opts.Pre,
		Retries:           types.Ptr(uint(opts.Retries)),
	}, nil
}

func renderCheck(out io.Writer, opts checkOptions, result app.CheckResult) error {
	report := adapters.NewReportWriter(out)
	updates := result.Report.Updates
	jsonOutput := opts.JSON || opts.JSONAll

	if !jsonOutput && len(updates) > 0 {
		if err := report.WriteTable(updates); err != nil {
			return err
		}
	}
	if result.Upgraded && !jsonOutput {
		if err := report.WriteUpgraded(result.PackageFile, result.PackageManager); err != nil {
			return err
		}
	}

	switch {
	case opts.JSON:
		return report.WriteJSON(updates)
	case opts.JSONAll:
		return report.WriteJSONAll(updates)
	}
	if len(updates) == 0 && result.Checked > 0 {
		if err := report.WriteTable(nil); err != nil {
			return err
		}
	}
	if err := report.WriteSummary(result.Checked, len(updates), result.Report.TotalDuration, result.Report.CacheHits, result.Report.CacheMisses); err != nil {
		return err
	}
	if len(updates) > 0 && !opts.Upgrade {
		return report.WriteUpgradeHint()
	}
	return nil
}
