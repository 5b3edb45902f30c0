package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the fit and download cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var (
		dir      string
		redisURL string
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached fits, plots and downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL != "" {
				return c.clearRedis(cmd.Context(), redisURL)
			}
			if dir == "" {
				d, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			return c.clearDir(cmd.Context(), dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "file cache directory (default: ~/.cache/netergm)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "clear the redis cache at this URL instead")

	return cmd
}

func (c *CLI) clearDir(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo(c.out, "Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	return c.clear(ctx, fc, "Directory: "+dir)
}

func (c *CLI) clearRedis(ctx context.Context, url string) error {
	rc, err := cache.NewRedisCache(ctx, url, cache.DefaultRedisPrefix)
	if err != nil {
		return err
	}
	defer rc.Close()
	return c.clear(ctx, rc, "Prefix: "+cache.DefaultRedisPrefix)
}

func (c *CLI) clear(ctx context.Context, store cache.Clearer, where string) error {
	count, err := store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess(c.out, "Cleared %d cached entries", count)
	printDetail(c.out, "%s", where)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
