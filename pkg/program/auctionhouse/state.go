package auctionhouse

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AuctionHouse is the on-chain house configuration account.
type AuctionHouse struct {
	AuctionHouseFeeAccount        solana.PublicKey
	AuctionHouseTreasury          solana.PublicKey
	TreasuryWithdrawalDestination solana.PublicKey
	FeeWithdrawalDestination      solana.PublicKey
	TreasuryMint                  solana.PublicKey
	Authority                     solana.PublicKey
	Creator                       solana.PublicKey
	Bump                          uint8
	TreasuryBump                  uint8
	FeePayerBump                  uint8
	SellerFeeBasisPoints          uint16
	RequiresSignOff               bool
	CanChangeSalePrice            bool
}

// Unmarshal decodes the account data, verifying the Anchor discriminator.
func (a *AuctionHouse) Unmarshal(data []byte) error {
	return unmarshalAccount("AuctionHouse", data, a)
}

// ListingReceipt is the on-chain record printed alongside a sell.
type ListingReceipt struct {
	TradeState      solana.PublicKey
	Bookkeeper      solana.PublicKey
	AuctionHouse    solana.PublicKey
	Seller          solana.PublicKey
	Metadata        solana.PublicKey
	PurchaseReceipt *solana.PublicKey `bin:"optional"`
	Price           uint64
	TokenSize       uint64
	Bump            uint8
	TradeStateBump  uint8
	CreatedAt       int64
	CanceledAt      *int64 `bin:"optional"`
}

// Unmarshal decodes the account data, verifying the Anchor discriminator.
func (r *ListingReceipt) Unmarshal(data []byte) error {
	return unmarshalAccount("ListingReceipt", data, r)
}

// BidReceipt is the on-chain record printed alongside a public buy.
type BidReceipt struct {
	TradeState      solana.PublicKey
	Bookkeeper      solana.PublicKey
	AuctionHouse    solana.PublicKey
	Buyer           solana.PublicKey
	Metadata        solana.PublicKey
	TokenAccount    *solana.PublicKey `bin:"optional"`
	PurchaseReceipt *solana.PublicKey `bin:"optional"`
	Price           uint64
	TokenSize       uint64
	Bump            uint8
	TradeStateBump  uint8
	CreatedAt       int64
	CanceledAt      *int64 `bin:"optional"`
}

// Unmarshal decodes the account data, verifying the Anchor discriminator.
func (r *BidReceipt) Unmarshal(data []byte) error {
	return unmarshalAccount("BidReceipt", data, r)
}

// PurchaseReceipt is the immutable on-chain record of a matched sale.
type PurchaseReceipt struct {
	Bookkeeper   solana.PublicKey
	Buyer        solana.PublicKey
	Seller       solana.PublicKey
	AuctionHouse solana.PublicKey
	Metadata     solana.PublicKey
	TokenSize    uint64
	Price        uint64
	Bump         uint8
	CreatedAt    int64
}

// Unmarshal decodes the account data, verifying the Anchor discriminator.
func (r *PurchaseReceipt) Unmarshal(data []byte) error {
	return unmarshalAccount("PurchaseReceipt", data, r)
}

func unmarshalAccount(name string, data []byte, out interface{}) error {
	disc := accountDiscriminator(name)
	if len(data) < len(disc) {
		return fmt.Errorf("%s: data too short (%d bytes)", name, len(data))
	}
	if !bytes.Equal(data[:len(disc)], disc) {
		return fmt.Errorf("%s: account discriminator mismatch", name)
	}
	dec := bin.NewBorshDecoder(data[len(disc):])
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
