package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/outpost-labs/wrapcache"
	"github.com/outpost-labs/wrapcache/bus"
	"github.com/outpost-labs/wrapcache/store"
)

var (
	redisURL string
	prefix   string
)

func newClient(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func newStore(client *redis.Client) store.Store {
	if prefix != "" {
		return store.NewRedis(client, store.WithPrefix(prefix))
	}
	return store.NewRedis(client)
}

func main() {
	root := &cobra.Command{
		Use:           "bustctl",
		Short:         "inspect and bust wrapcache entries in a Redis-backed deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&redisURL, "redis", "redis://localhost:6379", "redis URL")
	root.PersistentFlags().StringVar(&prefix, "prefix", "", "key prefix the deployment namespaces entries under")

	root.AddCommand(&cobra.Command{
		Use:   "has <key>",
		Short: "exit 0 if the entry exists, 1 otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			found, err := newStore(client).Has(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				os.Exit(1)
			}
			fmt.Println("present")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "print the raw stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			val, found, err := newStore(client).Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no entry for %q", args[0])
			}
			if data, ok := val.([]byte); ok {
				os.Stdout.Write(data)
				fmt.Println()
				return nil
			}
			fmt.Printf("%v\n", val)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "bust <key>",
		Short: "delete the entry and signal persistent subscribers to reload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			key := args[0]
			deleted, err := newStore(client).Delete(ctx, key)
			if err != nil {
				return err
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			b := bus.NewRedis(ctx, logger, client)
			defer b.Close()
			if err := b.Publish(ctx, wrapcache.BustTopic(key), []byte(key)); err != nil {
				return err
			}

			if deleted {
				fmt.Printf("busted %q\n", key)
			} else {
				fmt.Printf("no entry for %q, refresh signal sent\n", key)
			}
			return nil
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
