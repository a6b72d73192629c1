package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/holaplex/marketplace-tx/pkg/config"
	"github.com/holaplex/marketplace-tx/pkg/jito"
	"github.com/holaplex/marketplace-tx/pkg/marketplace"
	"github.com/holaplex/marketplace-tx/pkg/readapi"
	sdkrpc "github.com/holaplex/marketplace-tx/pkg/rpc"
	"github.com/holaplex/marketplace-tx/pkg/txbuilder"
	"github.com/holaplex/marketplace-tx/pkg/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	configPath     string
	rpcURL         string
	commitment     string
	keypairPath    string
	subdomain      string
	auctionHouse   string
	graphEndpoint  string
	skipPreflight  bool
	useJito        bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:   "marketcli",
		Short: "NFT marketplace transaction CLI (auction house)",
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.keypairPath, "keypair", "", "path to solana-keygen json for the signing wallet")
	root.PersistentFlags().StringVar(&opts.subdomain, "subdomain", "", "storefront subdomain")
	root.PersistentFlags().StringVar(&opts.auctionHouse, "auction-house", "", "auction house address (default: first house of the storefront)")
	root.PersistentFlags().StringVar(&opts.graphEndpoint, "graph-endpoint", "", "GraphQL read API endpoint")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	root.PersistentFlags().BoolVar(&opts.useJito, "jito", false, "submit via the Jito Block Engine")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts (reads only)")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 60, "operation timeout seconds")

	root.AddCommand(
		newConfigCmd(opts),
		newBalanceCmd(opts),
		newBuyCmd(opts),
		newSellCmd(opts),
		newCancelListingCmd(opts),
		newMakeOfferCmd(opts),
		newCancelOfferCmd(opts),
		newAcceptOfferCmd(opts),
		newDepositEscrowCmd(opts),
		newWithdrawEscrowCmd(opts),
		newWithdrawCmd(opts),
	)

	return root
}

func newConfigCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"network=%s\nrpc=%s\ncommitment=%s\nsubdomain=%s\nauction_house=%s\ngraph_endpoint=%s\n",
				cfg.RPC.Network, cfg.RPC.ResolveRPCURL(), cfg.RPC.Commitment,
				cfg.Marketplace.Subdomain, cfg.Marketplace.AuctionHouse, cfg.Marketplace.GraphEndpoint)
			return nil
		},
	}
}

func newBalanceCmd(opts *globalOpts) *cobra.Command {
	var addressStr string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the lamport balance of an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, false)
			if err != nil {
				return err
			}
			addr, err := parsePubkey("address", addressStr)
			if err != nil {
				return err
			}
			balance, err := deps.rpc.GetBalance(ctx, addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", balance)
			return nil
		},
	}
	cmd.Flags().StringVar(&addressStr, "address", "", "account address")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

// runtimeDeps holds everything a command needs after wiring.
type runtimeDeps struct {
	cfg      config.Config
	rpc      *sdkrpc.Client
	builder  *txbuilder.Builder
	read     *readapi.Client
	pipeline *marketplace.Pipeline
	wallet   *wallet.Adapter
	log      zerolog.Logger
}

func loadConfig(opts *globalOpts) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(opts.configPath); err != nil {
			return cfg, err
		}
	}
	cfg = config.LoadEnv(cfg)

	if opts.rpcURL != "" {
		cfg.RPC.RPCURL = opts.rpcURL
	}
	if opts.commitment != "" {
		cfg.RPC.Commitment = opts.commitment
		cfg.Marketplace.Commitment = opts.commitment
	}
	if opts.subdomain != "" {
		cfg.Marketplace.Subdomain = opts.subdomain
	}
	if opts.auctionHouse != "" {
		cfg.Marketplace.AuctionHouse = opts.auctionHouse
	}
	if opts.graphEndpoint != "" {
		cfg.Marketplace.GraphEndpoint = opts.graphEndpoint
	}
	cfg.RPC.RateLimit.RPS = opts.rateLimitRPS
	cfg.RPC.Retry.MaxAttempts = opts.retryAttempts
	if opts.retryBackoffMs > 0 {
		cfg.RPC.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
	}
	return cfg, nil
}

// newDeps wires the runtime for a command. needSigner controls whether a
// keypair must be attached; read-only commands pass false.
func newDeps(cmd *cobra.Command, opts *globalOpts, needSigner bool) (*runtimeDeps, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger().Level(parseLogLevel(opts.logLevel))
	cfg.RPC.Logger = log

	client := sdkrpc.NewClient(cfg.RPC)
	builder := txbuilder.NewBuilder(client, txbuilder.ToCommitment(txbuilder.ConfirmationLevel(cfg.RPC.Commitment))).
		WithSkipPreflight(opts.skipPreflight)
	if opts.useJito {
		builder = builder.WithJito(jito.NewClientWithEndpoints(nil, ""))
	}

	read := readapi.NewClient(cfg.Marketplace.GraphEndpoint, nil, log)

	adapter := wallet.NewAdapter()
	if needSigner {
		if opts.keypairPath == "" {
			return nil, fmt.Errorf("a signing wallet is required (use --keypair)")
		}
		local, err := wallet.NewLocalFromKeygen(opts.keypairPath)
		if err != nil {
			return nil, err
		}
		adapter.Connect(local)
	}

	pipeline := marketplace.NewPipeline(adapter, client, builder, read, log)

	return &runtimeDeps{
		cfg:      cfg,
		rpc:      client,
		builder:  builder,
		read:     read,
		pipeline: pipeline,
		wallet:   adapter,
		log:      log,
	}, nil
}

// resolveHouse fetches the storefront and picks the configured auction house,
// defaulting to the first one.
func (d *runtimeDeps) resolveHouse(ctx context.Context) (marketplace.AuctionHouse, error) {
	if d.cfg.Marketplace.Subdomain == "" {
		return marketplace.AuctionHouse{}, fmt.Errorf("storefront subdomain is required (use --subdomain)")
	}
	mp, err := d.read.FetchMarketplace(ctx, d.cfg.Marketplace.Subdomain)
	if err != nil {
		return marketplace.AuctionHouse{}, err
	}
	if len(mp.AuctionHouses) == 0 {
		return marketplace.AuctionHouse{}, fmt.Errorf("storefront %q has no auction house", mp.Subdomain)
	}
	if d.cfg.Marketplace.AuctionHouse == "" {
		return mp.AuctionHouses[0], nil
	}
	want, err := parsePubkey("auction-house", d.cfg.Marketplace.AuctionHouse)
	if err != nil {
		return marketplace.AuctionHouse{}, err
	}
	for _, ah := range mp.AuctionHouses {
		if ah.Address.Equals(want) {
			return ah, nil
		}
	}
	return marketplace.AuctionHouse{}, fmt.Errorf("auction house %s not found on storefront %q", want, mp.Subdomain)
}

func (d *runtimeDeps) fetchNft(ctx context.Context, mintStr string) (*marketplace.Nft, error) {
	mint, err := parsePubkey("mint", mintStr)
	if err != nil {
		return nil, err
	}
	return d.read.FetchNft(ctx, mint)
}

func cmdContext(cmd *cobra.Command, opts *globalOpts) (context.Context, context.CancelFunc) {
	timeout := time.Duration(opts.timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
