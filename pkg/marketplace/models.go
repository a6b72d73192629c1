package marketplace

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Marketplace identifies one storefront instance. Entities here are read
// models owned by the external GraphQL service and the on-chain program;
// this pipeline only derives addresses from them.
type Marketplace struct {
	Subdomain     string
	Name          string
	AuctionHouses []AuctionHouse
}

// AuctionHouse is the read model of an on-chain house configuration.
type AuctionHouse struct {
	Address                       solana.PublicKey
	Authority                     solana.PublicKey
	TreasuryMint                  solana.PublicKey
	AuctionHouseFeeAccount        solana.PublicKey
	AuctionHouseTreasury          solana.PublicKey
	TreasuryWithdrawalDestination solana.PublicKey
	SellerFeeBasisPoints          uint16
	RequiresSignOff               bool
	CanChangeSalePrice            bool
}

// AuctionHouseForMint selects the house whose treasury mint matches the
// user-chosen payment token. Every operation is scoped to exactly one house.
func (m Marketplace) AuctionHouseForMint(treasuryMint solana.PublicKey) (AuctionHouse, bool) {
	for _, ah := range m.AuctionHouses {
		if ah.TreasuryMint.Equals(treasuryMint) {
			return ah, true
		}
	}
	return AuctionHouse{}, false
}

// NftOwner is the current holder of an NFT.
type NftOwner struct {
	Address                       solana.PublicKey
	AssociatedTokenAccountAddress solana.PublicKey
}

// Nft is the read model of a token and its standing orders.
type Nft struct {
	MintAddress          solana.PublicKey
	MetadataAddress      solana.PublicKey
	Name                 string
	SellerFeeBasisPoints uint16
	Owner                NftOwner
	Listings             []Listing
	Offers               []Offer
	Purchases            []Purchase
}

// Listing represents a standing sell order.
type Listing struct {
	TradeState   solana.PublicKey
	AuctionHouse solana.PublicKey
	Seller       solana.PublicKey
	Price        uint64
	TokenSize    uint64
	CreatedAt    time.Time
	CanceledAt   *time.Time
}

// Live reports whether the listing can still be purchased.
func (l Listing) Live() bool {
	return l.CanceledAt == nil
}

// Offer represents a standing buy order.
type Offer struct {
	TradeState   solana.PublicKey
	AuctionHouse solana.PublicKey
	Buyer        solana.PublicKey
	Price        uint64
	TokenSize    uint64
	CreatedAt    time.Time
	CanceledAt   *time.Time
	AcceptedAt   *time.Time
}

// Live reports whether the offer can still be accepted or canceled.
func (o Offer) Live() bool {
	return o.CanceledAt == nil && o.AcceptedAt == nil
}

// Purchase is the immutable result of a successful sale.
type Purchase struct {
	Buyer        solana.PublicKey
	Seller       solana.PublicKey
	AuctionHouse solana.PublicKey
	Price        uint64
	CreatedAt    time.Time
}
