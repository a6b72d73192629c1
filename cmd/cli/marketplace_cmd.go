package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holaplex/marketplace-tx/pkg/marketplace"
)

func newBuyCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr   string
		sellerStr string
		jitoTip   uint64
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy a listed NFT at its asking price",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}
			listing, err := selectListing(nft, ah, sellerStr)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.Buy(ctx, marketplace.BuyParams{
				AuctionHouse: ah,
				Nft:          nft,
				Listing:      listing,
			}, marketplace.WithJitoTip(jitoTip))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	cmd.Flags().StringVar(&sellerStr, "seller", "", "seller address, when several listings stand")
	cmd.Flags().Uint64Var(&jitoTip, "jito-tip", 0, "tip lamports when submitting via Jito")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func newSellCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr string
		amount  uint64
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "List an owned NFT for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.Sell(ctx, marketplace.SellParams{
				AuctionHouse: ah,
				Nft:          nft,
				Amount:       amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "asking price in the treasury mint's smallest unit")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCancelListingCmd(opts *globalOpts) *cobra.Command {
	var mintStr string

	cmd := &cobra.Command{
		Use:   "cancel-listing",
		Short: "Revoke a standing listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}
			listing, err := selectListing(nft, ah, deps.wallet.PublicKey().String())
			if err != nil {
				return err
			}

			res, err := deps.pipeline.CancelListing(ctx, marketplace.CancelListingParams{
				AuctionHouse: ah,
				Nft:          nft,
				Listing:      listing,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func newMakeOfferCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr string
		amount  uint64
	)

	cmd := &cobra.Command{
		Use:   "make-offer",
		Short: "Place a public offer on an NFT",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.MakeOffer(ctx, marketplace.MakeOfferParams{
				AuctionHouse: ah,
				Nft:          nft,
				Amount:       amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "offer price in the treasury mint's smallest unit")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCancelOfferCmd(opts *globalOpts) *cobra.Command {
	var mintStr string

	cmd := &cobra.Command{
		Use:   "cancel-offer",
		Short: "Revoke a standing offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}
			offer, err := selectOffer(nft, ah, deps.wallet.PublicKey().String())
			if err != nil {
				return err
			}

			res, err := deps.pipeline.CancelOffer(ctx, marketplace.CancelOfferParams{
				AuctionHouse: ah,
				Nft:          nft,
				Offer:        offer,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func newAcceptOfferCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr  string
		buyerStr string
		jitoTip  uint64
	)

	cmd := &cobra.Command{
		Use:   "accept-offer",
		Short: "Sell an owned NFT to a standing offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}
			nft, err := deps.fetchNft(ctx, mintStr)
			if err != nil {
				return err
			}
			offer, err := selectOffer(nft, ah, buyerStr)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.AcceptOffer(ctx, marketplace.AcceptOfferParams{
				AuctionHouse: ah,
				Nft:          nft,
				Offer:        offer,
			}, marketplace.WithJitoTip(jitoTip))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "NFT mint address")
	cmd.Flags().StringVar(&buyerStr, "buyer", "", "buyer address, when several offers stand")
	cmd.Flags().Uint64Var(&jitoTip, "jito-tip", 0, "tip lamports when submitting via Jito")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func newWithdrawCmd(opts *globalOpts) *cobra.Command {
	var (
		feeDestStr string
		feeBps     uint16
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Drain the auction house treasury (authority only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}

			params := marketplace.WithdrawTreasuryParams{
				AuctionHouse:           ah,
				PlatformFeeBasisPoints: feeBps,
			}
			if feeDestStr != "" {
				if params.PlatformFeeDestination, err = parsePubkey("platform-fee-dest", feeDestStr); err != nil {
					return err
				}
			}

			res, err := deps.pipeline.WithdrawTreasury(ctx, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().StringVar(&feeDestStr, "platform-fee-dest", "", "platform fee destination address")
	cmd.Flags().Uint16Var(&feeBps, "platform-fee-bps", 0, "platform fee share in basis points")

	return cmd
}

func newDepositEscrowCmd(opts *globalOpts) *cobra.Command {
	var amount uint64

	cmd := &cobra.Command{
		Use:   "deposit-escrow",
		Short: "Pre-fund the signer's escrow payment account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.DepositEscrow(ctx, marketplace.EscrowParams{
				AuctionHouse: ah,
				Amount:       amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&amount, "amount", 0, "deposit in the treasury mint's smallest unit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newWithdrawEscrowCmd(opts *globalOpts) *cobra.Command {
	var amount uint64

	cmd := &cobra.Command{
		Use:   "withdraw-escrow",
		Short: "Return escrowed funds to the signer's wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd, opts)
			defer cancel()

			deps, err := newDeps(cmd, opts, true)
			if err != nil {
				return err
			}
			ah, err := deps.resolveHouse(ctx)
			if err != nil {
				return err
			}

			res, err := deps.pipeline.WithdrawEscrow(ctx, marketplace.EscrowParams{
				AuctionHouse: ah,
				Amount:       amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", res.Signature)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&amount, "amount", 0, "withdrawal in the treasury mint's smallest unit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// selectListing picks the live listing on the given house, filtered by
// seller when provided. Ambiguity is an error rather than a guess.
func selectListing(nft *marketplace.Nft, ah marketplace.AuctionHouse, sellerStr string) (*marketplace.Listing, error) {
	if nft == nil {
		return nil, fmt.Errorf("nft not found")
	}
	var matches []*marketplace.Listing
	for i := range nft.Listings {
		l := &nft.Listings[i]
		if !l.Live() || !l.AuctionHouse.Equals(ah.Address) {
			continue
		}
		if sellerStr != "" && l.Seller.String() != sellerStr {
			continue
		}
		matches = append(matches, l)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no live listing found for %s", nft.MintAddress)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d live listings stand for %s, disambiguate with --seller", len(matches), nft.MintAddress)
	}
}

// selectOffer picks the live offer on the given house, filtered by buyer
// when provided.
func selectOffer(nft *marketplace.Nft, ah marketplace.AuctionHouse, buyerStr string) (*marketplace.Offer, error) {
	if nft == nil {
		return nil, fmt.Errorf("nft not found")
	}
	var matches []*marketplace.Offer
	for i := range nft.Offers {
		o := &nft.Offers[i]
		if !o.Live() || !o.AuctionHouse.Equals(ah.Address) {
			continue
		}
		if buyerStr != "" && o.Buyer.String() != buyerStr {
			continue
		}
		matches = append(matches, o)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no live offer found for %s", nft.MintAddress)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d live offers stand for %s, disambiguate with --buyer", len(matches), nft.MintAddress)
	}
}
