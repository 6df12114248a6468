package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tracker/internal/cache"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the query result cache",
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())

	return cmd
}

func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached query results",
		RunE:  runCacheClear,
	}
}

func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE:  runCacheStats,
	}
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := cache.NewStore()
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Println("Cache cleared.")
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := cache.NewStore()
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}

	total, valid, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	fmt.Println("Cache statistics:")
	fmt.Printf("  Total:   %d\n", total)
	fmt.Printf("  Valid:   %d\n", valid)
	fmt.Printf("  Expired: %d\n", total-valid)
	return nil
}
