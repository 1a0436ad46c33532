package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"turbo-ncu/internal/app"
)

func newClearCacheCommand() *cobra.Command {
	var cacheFile string
	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove the registry version cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClearCache(cmd.Context(), cmd, cacheFile)
		},
	}
	cmd.Flags().StringVar(&cacheFile, "cache-file", "", "Cache file path (default ~/.turbo-ncu-cache.json)")
	return cmd
}

func runClearCache(ctx context.Context, cmd *cobra.Command, cacheFile string) error {
	service := newAppService()
	path := cacheFile
	if !flagChanged(cmd, "cache-file") {
		path = viper.GetString("cache_file")
	}
	result, err := service.ClearCache(ctx, app.ClearCacheRequest{CacheFile: path})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", result.CacheFile)
	return nil
}
