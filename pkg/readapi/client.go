// Package readapi fetches marketplace read models from the indexer's
// GraphQL endpoint. The indexer owns the view of standing orders; the
// pipeline treats its responses as the truth about what can be bought,
// canceled, or accepted.
package readapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	graphql "github.com/hasura/go-graphql-client"
	"github.com/rs/zerolog"

	"github.com/holaplex/marketplace-tx/pkg/marketplace"
)

// Client wraps the GraphQL endpoint.
type Client struct {
	gql *graphql.Client
	log zerolog.Logger
}

// NewClient builds a read client for the given endpoint. Pass nil to use
// http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		gql: graphql.NewClient(endpoint, httpClient),
		log: log,
	}
}

// Wire types. The indexer serializes u64 prices as strings to survive JSON
// number precision, and addresses as base58 strings.

type wireAuctionHouse struct {
	Address                       string `graphql:"address"`
	Authority                     string `graphql:"authority"`
	TreasuryMint                  string `graphql:"treasuryMint"`
	AuctionHouseFeeAccount        string `graphql:"auctionHouseFeeAccount"`
	AuctionHouseTreasury          string `graphql:"auctionHouseTreasury"`
	TreasuryWithdrawalDestination string `graphql:"treasuryWithdrawalDestination"`
	SellerFeeBasisPoints          int    `graphql:"sellerFeeBasisPoints"`
	RequiresSignOff               bool   `graphql:"requiresSignOff"`
	CanChangeSalePrice            bool   `graphql:"canChangeSalePrice"`
}

type wireListing struct {
	TradeState   string  `graphql:"tradeState"`
	AuctionHouse string  `graphql:"auctionHouse"`
	Seller       string  `graphql:"seller"`
	Price        string  `graphql:"price"`
	TokenSize    int     `graphql:"tokenSize"`
	CreatedAt    string  `graphql:"createdAt"`
	CanceledAt   *string `graphql:"canceledAt"`
}

type wireOffer struct {
	TradeState   string  `graphql:"tradeState"`
	AuctionHouse string  `graphql:"auctionHouse"`
	Buyer        string  `graphql:"buyer"`
	Price        string  `graphql:"price"`
	TokenSize    int     `graphql:"tokenSize"`
	CreatedAt    string  `graphql:"createdAt"`
	CanceledAt   *string `graphql:"canceledAt"`
	AcceptedAt   *string `graphql:"acceptedAt"`
}

type wirePurchase struct {
	Buyer        string `graphql:"buyer"`
	Seller       string `graphql:"seller"`
	AuctionHouse string `graphql:"auctionHouse"`
	Price        string `graphql:"price"`
	CreatedAt    string `graphql:"createdAt"`
}

type wireNft struct {
	MintAddress          string `graphql:"mintAddress"`
	Address              string `graphql:"address"`
	Name                 string `graphql:"name"`
	SellerFeeBasisPoints int    `graphql:"sellerFeeBasisPoints"`
	Owner                struct {
		Address                       string `graphql:"address"`
		AssociatedTokenAccountAddress string `graphql:"associatedTokenAccountAddress"`
	} `graphql:"owner"`
	Listings  []wireListing  `graphql:"listings"`
	Offers    []wireOffer    `graphql:"offers"`
	Purchases []wirePurchase `graphql:"purchases"`
}

// FetchMarketplace resolves a storefront by subdomain.
func (c *Client) FetchMarketplace(ctx context.Context, subdomain string) (marketplace.Marketplace, error) {
	var q struct {
		Marketplace struct {
			Subdomain     string             `graphql:"subdomain"`
			Name          string             `graphql:"name"`
			AuctionHouses []wireAuctionHouse `graphql:"auctionHouses"`
		} `graphql:"marketplace(subdomain: $subdomain)"`
	}
	vars := map[string]interface{}{
		"subdomain": graphql.String(subdomain),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return marketplace.Marketplace{}, fmt.Errorf("fetch marketplace %q: %w", subdomain, err)
	}

	out := marketplace.Marketplace{
		Subdomain: q.Marketplace.Subdomain,
		Name:      q.Marketplace.Name,
	}
	for _, w := range q.Marketplace.AuctionHouses {
		ah, err := decodeAuctionHouse(w)
		if err != nil {
			return marketplace.Marketplace{}, err
		}
		out.AuctionHouses = append(out.AuctionHouses, ah)
	}
	return out, nil
}

// FetchNft resolves an NFT read model, including its standing orders, by
// mint address.
func (c *Client) FetchNft(ctx context.Context, mint solana.PublicKey) (*marketplace.Nft, error) {
	var q struct {
		Nft wireNft `graphql:"nft(address: $address)"`
	}
	vars := map[string]interface{}{
		"address": graphql.String(mint.String()),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("fetch nft %s: %w", mint, err)
	}
	return decodeNft(q.Nft)
}

// Refetch re-pulls the given mints so the view reflects a just-confirmed
// operation. It satisfies the pipeline's Refetcher interface.
func (c *Client) Refetch(ctx context.Context, mints ...solana.PublicKey) error {
	for _, mint := range mints {
		if _, err := c.FetchNft(ctx, mint); err != nil {
			return err
		}
		c.log.Debug().Str("mint", mint.String()).Msg("refetched")
	}
	return nil
}

func decodeAuctionHouse(w wireAuctionHouse) (marketplace.AuctionHouse, error) {
	var (
		ah  marketplace.AuctionHouse
		err error
	)
	fields := []struct {
		name string
		dst  *solana.PublicKey
		src  string
	}{
		{"address", &ah.Address, w.Address},
		{"authority", &ah.Authority, w.Authority},
		{"treasuryMint", &ah.TreasuryMint, w.TreasuryMint},
		{"auctionHouseFeeAccount", &ah.AuctionHouseFeeAccount, w.AuctionHouseFeeAccount},
		{"auctionHouseTreasury", &ah.AuctionHouseTreasury, w.AuctionHouseTreasury},
		{"treasuryWithdrawalDestination", &ah.TreasuryWithdrawalDestination, w.TreasuryWithdrawalDestination},
	}
	for _, f := range fields {
		if *f.dst, err = solana.PublicKeyFromBase58(f.src); err != nil {
			return marketplace.AuctionHouse{}, fmt.Errorf("auction house %s: %w", f.name, err)
		}
	}
	ah.SellerFeeBasisPoints = uint16(w.SellerFeeBasisPoints)
	ah.RequiresSignOff = w.RequiresSignOff
	ah.CanChangeSalePrice = w.CanChangeSalePrice
	return ah, nil
}

func decodeNft(w wireNft) (*marketplace.Nft, error) {
	mint, err := solana.PublicKeyFromBase58(w.MintAddress)
	if err != nil {
		return nil, fmt.Errorf("nft mintAddress: %w", err)
	}
	metadata, err := solana.PublicKeyFromBase58(w.Address)
	if err != nil {
		return nil, fmt.Errorf("nft address: %w", err)
	}
	owner, err := solana.PublicKeyFromBase58(w.Owner.Address)
	if err != nil {
		return nil, fmt.Errorf("nft owner: %w", err)
	}
	ownerAta, err := solana.PublicKeyFromBase58(w.Owner.AssociatedTokenAccountAddress)
	if err != nil {
		return nil, fmt.Errorf("nft owner ata: %w", err)
	}

	nft := &marketplace.Nft{
		MintAddress:          mint,
		MetadataAddress:      metadata,
		Name:                 w.Name,
		SellerFeeBasisPoints: uint16(w.SellerFeeBasisPoints),
		Owner: marketplace.NftOwner{
			Address:                       owner,
			AssociatedTokenAccountAddress: ownerAta,
		},
	}

	for _, l := range w.Listings {
		listing, err := decodeListing(l)
		if err != nil {
			return nil, err
		}
		nft.Listings = append(nft.Listings, listing)
	}
	for _, o := range w.Offers {
		offer, err := decodeOffer(o)
		if err != nil {
			return nil, err
		}
		nft.Offers = append(nft.Offers, offer)
	}
	for _, p := range w.Purchases {
		purchase, err := decodePurchase(p)
		if err != nil {
			return nil, err
		}
		nft.Purchases = append(nft.Purchases, purchase)
	}
	return nft, nil
}

func decodeListing(w wireListing) (marketplace.Listing, error) {
	tradeState, err := solana.PublicKeyFromBase58(w.TradeState)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing tradeState: %w", err)
	}
	auctionHouse, err := solana.PublicKeyFromBase58(w.AuctionHouse)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing auctionHouse: %w", err)
	}
	seller, err := solana.PublicKeyFromBase58(w.Seller)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing seller: %w", err)
	}
	price, err := parsePrice(w.Price)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing price: %w", err)
	}
	createdAt, err := parseTime(w.CreatedAt)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing createdAt: %w", err)
	}
	canceledAt, err := parseTimePtr(w.CanceledAt)
	if err != nil {
		return marketplace.Listing{}, fmt.Errorf("listing canceledAt: %w", err)
	}
	return marketplace.Listing{
		TradeState:   tradeState,
		AuctionHouse: auctionHouse,
		Seller:       seller,
		Price:        price,
		TokenSize:    uint64(w.TokenSize),
		CreatedAt:    createdAt,
		CanceledAt:   canceledAt,
	}, nil
}

func decodeOffer(w wireOffer) (marketplace.Offer, error) {
	tradeState, err := solana.PublicKeyFromBase58(w.TradeState)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer tradeState: %w", err)
	}
	auctionHouse, err := solana.PublicKeyFromBase58(w.AuctionHouse)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer auctionHouse: %w", err)
	}
	buyer, err := solana.PublicKeyFromBase58(w.Buyer)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer buyer: %w", err)
	}
	price, err := parsePrice(w.Price)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer price: %w", err)
	}
	createdAt, err := parseTime(w.CreatedAt)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer createdAt: %w", err)
	}
	canceledAt, err := parseTimePtr(w.CanceledAt)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer canceledAt: %w", err)
	}
	acceptedAt, err := parseTimePtr(w.AcceptedAt)
	if err != nil {
		return marketplace.Offer{}, fmt.Errorf("offer acceptedAt: %w", err)
	}
	return marketplace.Offer{
		TradeState:   tradeState,
		AuctionHouse: auctionHouse,
		Buyer:        buyer,
		Price:        price,
		TokenSize:    uint64(w.TokenSize),
		CreatedAt:    createdAt,
		CanceledAt:   canceledAt,
		AcceptedAt:   acceptedAt,
	}, nil
}

func decodePurchase(w wirePurchase) (marketplace.Purchase, error) {
	buyer, err := solana.PublicKeyFromBase58(w.Buyer)
	if err != nil {
		return marketplace.Purchase{}, fmt.Errorf("purchase buyer: %w", err)
	}
	seller, err := solana.PublicKeyFromBase58(w.Seller)
	if err != nil {
		return marketplace.Purchase{}, fmt.Errorf("purchase seller: %w", err)
	}
	auctionHouse, err := solana.PublicKeyFromBase58(w.AuctionHouse)
	if err != nil {
		return marketplace.Purchase{}, fmt.Errorf("purchase auctionHouse: %w", err)
	}
	price, err := parsePrice(w.Price)
	if err != nil {
		return marketplace.Purchase{}, fmt.Errorf("purchase price: %w", err)
	}
	createdAt, err := parseTime(w.CreatedAt)
	if err != nil {
		return marketplace.Purchase{}, fmt.Errorf("purchase createdAt: %w", err)
	}
	return marketplace.Purchase{
		Buyer:        buyer,
		Seller:       seller,
		AuctionHouse: auctionHouse,
		Price:        price,
		CreatedAt:    createdAt,
	}, nil
}

func parsePrice(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
