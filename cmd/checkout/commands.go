package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/topup_shop/internal/checkout"
	"github.com/Skotchmaster/topup_shop/pkg/apiclient"
	"github.com/Skotchmaster/topup_shop/pkg/config"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
)

var (
	apiURL     string
	apiTimeout time.Duration
	storePath  string
	localPath  string
	logLevel   string
)

func addStoreFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&apiURL, "api-url", config.EnvDefault("CHECKOUT_API_URL", "http://localhost:8080"), "storefront API base URL")
	f.DurationVar(&apiTimeout, "api-timeout", 10*time.Second, "timeout for each API call")
	f.StringVar(&storePath, "store", config.EnvDefault("CHECKOUT_STORE_PATH", "checkout.db"), "fallback store database file")
	f.StringVar(&localPath, "local", config.EnvDefault("CHECKOUT_LOCAL_PATH", "guest-orders.json"), "local demo order list")
	f.StringVar(&logLevel, "log-level", config.EnvDefault("LOG_LEVEL", "warn"), "log level")
}

func placeCmd() *cobra.Command {
	var (
		requestPath string
		token       string
		uid         string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place an order from a JSON checkout request",
		Long: `Place an order from a JSON checkout request read from --request or stdin.

The API is tried first, then the fallback store, then the local list.
The first one that takes both the order and the payment wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, requestPath)
			if err != nil {
				return err
			}
			req.Token = token
			req.UserID = uid

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), logLevel)

			tiers := []checkout.Tier{
				&checkout.APITier{Client: apiclient.NewClient(apiURL, apiTimeout)},
			}
			if store, err := checkout.OpenStoreTier(storePath); err == nil {
				defer store.Close()
				tiers = append(tiers, store)
			} else {
				logger.Warn("fallback_store_unavailable", "path", storePath, "error", err)
			}
			tiers = append(tiers, &checkout.LocalTier{Path: localPath})

			o := &checkout.Orchestrator{Tiers: tiers, Logger: logger}
			order, err := o.Place(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Order placed successfully!")
			return printJSON(cmd.OutOrStdout(), order)
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "checkout request file (default stdin)")
	cmd.Flags().StringVar(&token, "token", os.Getenv("CHECKOUT_TOKEN"), "bearer ID token; empty places a guest order")
	cmd.Flags().StringVar(&uid, "uid", "", "uid recorded by the fallback store")

	return cmd
}

func storeOrdersCmd() *cobra.Command {
	var uid string

	cmd := &cobra.Command{
		Use:   "store-orders",
		Short: "List orders kept by the fallback store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := checkout.OpenStoreTier(storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			orders, err := store.Orders(cmd.Context(), uid)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orders)
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "only orders owned by this uid (\"guest\" for guest orders)")
	return cmd
}

func localOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "local-orders",
		Short: "List demo orders kept in the local list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := (&checkout.LocalTier{Path: localPath}).Orders()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orders)
		},
	}
}

func readRequest(cmd *cobra.Command, path string) (checkout.Request, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return checkout.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req checkout.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return checkout.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
