package auctionhouse

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SellAccounts are the accounts of the sell instruction.
type SellAccounts struct {
	Wallet                 solana.PublicKey
	TokenAccount           solana.PublicKey
	Metadata               solana.PublicKey
	Authority              solana.PublicKey
	AuctionHouse           solana.PublicKey
	AuctionHouseFeeAccount solana.PublicKey
	SellerTradeState       solana.PublicKey
	FreeSellerTradeState   solana.PublicKey
	TokenProgram           solana.PublicKey
	SystemProgram          solana.PublicKey
	ProgramAsSigner        solana.PublicKey
	Rent                   solana.PublicKey
}

// SellArgs are the arguments of the sell instruction.
type SellArgs struct {
	TradeStateBump      uint8
	FreeTradeStateBump  uint8
	ProgramAsSignerBump uint8
	BuyerPrice          uint64
	TokenSize           uint64
}

// BuildSell constructs the sell instruction.
func BuildSell(a SellAccounts, args SellArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"wallet":           a.Wallet,
		"tokenAccount":     a.TokenAccount,
		"metadata":         a.Metadata,
		"auctionHouse":     a.AuctionHouse,
		"sellerTradeState": a.SellerTradeState,
		"freeTradeState":   a.FreeSellerTradeState,
	}); err != nil {
		return nil, err
	}
	if err := requireOrder(args.BuyerPrice, args.TokenSize); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("sell")
	data = append(data, args.TradeStateBump, args.FreeTradeStateBump, args.ProgramAsSignerBump)
	data = append(data, u64LE(args.BuyerPrice)...)
	data = append(data, u64LE(args.TokenSize)...)

	metas := []*solana.AccountMeta{
		meta(a.Wallet, true, true),
		meta(a.TokenAccount, true, false),
		meta(a.Metadata, false, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.SellerTradeState, true, false),
		meta(a.FreeSellerTradeState, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
		meta(a.ProgramAsSigner, false, false),
		meta(a.Rent, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// PublicBuyAccounts are the accounts of the public_buy instruction.
type PublicBuyAccounts struct {
	Wallet                 solana.PublicKey
	PaymentAccount         solana.PublicKey
	TransferAuthority      solana.PublicKey
	TreasuryMint           solana.PublicKey
	TokenAccount           solana.PublicKey
	Metadata               solana.PublicKey
	EscrowPaymentAccount   solana.PublicKey
	Authority              solana.PublicKey
	AuctionHouse           solana.PublicKey
	AuctionHouseFeeAccount solana.PublicKey
	BuyerTradeState        solana.PublicKey
	TokenProgram           solana.PublicKey
	SystemProgram          solana.PublicKey
	Rent                   solana.PublicKey
}

// PublicBuyArgs are the arguments of the public_buy instruction.
type PublicBuyArgs struct {
	TradeStateBump    uint8
	EscrowPaymentBump uint8
	BuyerPrice        uint64
	TokenSize         uint64
}

// BuildPublicBuy constructs the public_buy instruction. It escrows the
// buyer's funds and opens a public bid trade state.
func BuildPublicBuy(a PublicBuyAccounts, args PublicBuyArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"wallet":          a.Wallet,
		"treasuryMint":    a.TreasuryMint,
		"tokenAccount":    a.TokenAccount,
		"metadata":        a.Metadata,
		"escrowPayment":   a.EscrowPaymentAccount,
		"auctionHouse":    a.AuctionHouse,
		"buyerTradeState": a.BuyerTradeState,
	}); err != nil {
		return nil, err
	}
	if err := requireOrder(args.BuyerPrice, args.TokenSize); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("public_buy")
	data = append(data, args.TradeStateBump, args.EscrowPaymentBump)
	data = append(data, u64LE(args.BuyerPrice)...)
	data = append(data, u64LE(args.TokenSize)...)

	metas := []*solana.AccountMeta{
		meta(a.Wallet, false, true),
		meta(a.PaymentAccount, true, false),
		meta(a.TransferAuthority, false, false),
		meta(a.TreasuryMint, false, false),
		meta(a.TokenAccount, false, false),
		meta(a.Metadata, false, false),
		meta(a.EscrowPaymentAccount, true, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.BuyerTradeState, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
		meta(a.Rent, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// ExecuteSaleAccounts are the accounts of the execute_sale instruction.
type ExecuteSaleAccounts struct {
	Buyer                       solana.PublicKey
	Seller                      solana.PublicKey
	TokenAccount                solana.PublicKey
	TokenMint                   solana.PublicKey
	Metadata                    solana.PublicKey
	TreasuryMint                solana.PublicKey
	EscrowPaymentAccount        solana.PublicKey
	SellerPaymentReceiptAccount solana.PublicKey
	BuyerReceiptTokenAccount    solana.PublicKey
	Authority                   solana.PublicKey
	AuctionHouse                solana.PublicKey
	AuctionHouseFeeAccount      solana.PublicKey
	AuctionHouseTreasury        solana.PublicKey
	BuyerTradeState             solana.PublicKey
	SellerTradeState            solana.PublicKey
	FreeTradeState              solana.PublicKey
	TokenProgram                solana.PublicKey
	SystemProgram               solana.PublicKey
	AssociatedTokenProgram      solana.PublicKey
	ProgramAsSigner             solana.PublicKey
	Rent                        solana.PublicKey
}

// ExecuteSaleArgs are the arguments of the execute_sale instruction.
type ExecuteSaleArgs struct {
	EscrowPaymentBump   uint8
	FreeTradeStateBump  uint8
	ProgramAsSignerBump uint8
	BuyerPrice          uint64
	TokenSize           uint64
}

// BuildExecuteSale constructs the execute_sale instruction. It consumes the
// seller and buyer trade states atomically.
func BuildExecuteSale(a ExecuteSaleAccounts, args ExecuteSaleArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"buyer":            a.Buyer,
		"seller":           a.Seller,
		"tokenAccount":     a.TokenAccount,
		"tokenMint":        a.TokenMint,
		"auctionHouse":     a.AuctionHouse,
		"buyerTradeState":  a.BuyerTradeState,
		"sellerTradeState": a.SellerTradeState,
		"freeTradeState":   a.FreeTradeState,
	}); err != nil {
		return nil, err
	}
	if err := requireOrder(args.BuyerPrice, args.TokenSize); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("execute_sale")
	data = append(data, args.EscrowPaymentBump, args.FreeTradeStateBump, args.ProgramAsSignerBump)
	data = append(data, u64LE(args.BuyerPrice)...)
	data = append(data, u64LE(args.TokenSize)...)

	metas := []*solana.AccountMeta{
		meta(a.Buyer, true, false),
		meta(a.Seller, true, false),
		meta(a.TokenAccount, true, false),
		meta(a.TokenMint, false, false),
		meta(a.Metadata, false, false),
		meta(a.TreasuryMint, false, false),
		meta(a.EscrowPaymentAccount, true, false),
		meta(a.SellerPaymentReceiptAccount, true, false),
		meta(a.BuyerReceiptTokenAccount, true, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.AuctionHouseTreasury, true, false),
		meta(a.BuyerTradeState, true, false),
		meta(a.SellerTradeState, true, false),
		meta(a.FreeTradeState, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
		meta(a.AssociatedTokenProgram, false, false),
		meta(a.ProgramAsSigner, false, false),
		meta(a.Rent, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// CancelAccounts are the accounts of the cancel instruction, used for both
// listings (seller trade state) and offers (buyer trade state).
type CancelAccounts struct {
	Wallet                 solana.PublicKey
	TokenAccount           solana.PublicKey
	TokenMint              solana.PublicKey
	Authority              solana.PublicKey
	AuctionHouse           solana.PublicKey
	AuctionHouseFeeAccount solana.PublicKey
	TradeState             solana.PublicKey
	TokenProgram           solana.PublicKey
}

// CancelArgs are the arguments of the cancel instruction. They must match
// the standing order's price and size or the trade state will not resolve.
type CancelArgs struct {
	BuyerPrice uint64
	TokenSize  uint64
}

// BuildCancel constructs the cancel instruction.
func BuildCancel(a CancelAccounts, args CancelArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"wallet":       a.Wallet,
		"tokenAccount": a.TokenAccount,
		"tokenMint":    a.TokenMint,
		"auctionHouse": a.AuctionHouse,
		"tradeState":   a.TradeState,
	}); err != nil {
		return nil, err
	}
	if err := requireOrder(args.BuyerPrice, args.TokenSize); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("cancel")
	data = append(data, u64LE(args.BuyerPrice)...)
	data = append(data, u64LE(args.TokenSize)...)

	metas := []*solana.AccountMeta{
		meta(a.Wallet, true, true),
		meta(a.TokenAccount, true, false),
		meta(a.TokenMint, false, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.TradeState, true, false),
		meta(a.TokenProgram, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// DepositAccounts are the accounts of the deposit instruction.
type DepositAccounts struct {
	Wallet                 solana.PublicKey
	PaymentAccount         solana.PublicKey
	TransferAuthority      solana.PublicKey
	EscrowPaymentAccount   solana.PublicKey
	TreasuryMint           solana.PublicKey
	Authority              solana.PublicKey
	AuctionHouse           solana.PublicKey
	AuctionHouseFeeAccount solana.PublicKey
	TokenProgram           solana.PublicKey
	SystemProgram          solana.PublicKey
	Rent                   solana.PublicKey
}

// DepositArgs are the arguments of the deposit instruction.
type DepositArgs struct {
	EscrowPaymentBump uint8
	Amount            uint64
}

// BuildDeposit constructs the deposit instruction, topping up the buyer's
// escrow payment account.
func BuildDeposit(a DepositAccounts, args DepositArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"wallet":        a.Wallet,
		"escrowPayment": a.EscrowPaymentAccount,
		"treasuryMint":  a.TreasuryMint,
		"auctionHouse":  a.AuctionHouse,
	}); err != nil {
		return nil, err
	}
	if err := requireAmount(args.Amount); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("deposit")
	data = append(data, args.EscrowPaymentBump)
	data = append(data, u64LE(args.Amount)...)

	metas := []*solana.AccountMeta{
		meta(a.Wallet, false, true),
		meta(a.PaymentAccount, true, false),
		meta(a.TransferAuthority, false, false),
		meta(a.EscrowPaymentAccount, true, false),
		meta(a.TreasuryMint, false, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
		meta(a.Rent, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// WithdrawAccounts are the accounts of the withdraw instruction, which
// returns escrowed funds to the buyer.
type WithdrawAccounts struct {
	Wallet                 solana.PublicKey
	ReceiptAccount         solana.PublicKey
	EscrowPaymentAccount   solana.PublicKey
	TreasuryMint           solana.PublicKey
	Authority              solana.PublicKey
	AuctionHouse           solana.PublicKey
	AuctionHouseFeeAccount solana.PublicKey
	TokenProgram           solana.PublicKey
	SystemProgram          solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
	Rent                   solana.PublicKey
}

// WithdrawArgs are the arguments of the withdraw instruction.
type WithdrawArgs struct {
	EscrowPaymentBump uint8
	Amount            uint64
}

// BuildWithdraw constructs the withdraw instruction.
func BuildWithdraw(a WithdrawAccounts, args WithdrawArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"wallet":        a.Wallet,
		"escrowPayment": a.EscrowPaymentAccount,
		"treasuryMint":  a.TreasuryMint,
		"auctionHouse":  a.AuctionHouse,
	}); err != nil {
		return nil, err
	}
	if err := requireAmount(args.Amount); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("withdraw")
	data = append(data, args.EscrowPaymentBump)
	data = append(data, u64LE(args.Amount)...)

	metas := []*solana.AccountMeta{
		meta(a.Wallet, false, true),
		meta(a.ReceiptAccount, true, false),
		meta(a.EscrowPaymentAccount, true, false),
		meta(a.TreasuryMint, false, false),
		meta(a.Authority, false, false),
		meta(a.AuctionHouse, false, false),
		meta(a.AuctionHouseFeeAccount, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
		meta(a.AssociatedTokenProgram, false, false),
		meta(a.Rent, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// WithdrawFromTreasuryAccounts are the accounts of withdraw_from_treasury.
type WithdrawFromTreasuryAccounts struct {
	TreasuryMint                  solana.PublicKey
	Authority                     solana.PublicKey
	TreasuryWithdrawalDestination solana.PublicKey
	AuctionHouseTreasury          solana.PublicKey
	AuctionHouse                  solana.PublicKey
	TokenProgram                  solana.PublicKey
	SystemProgram                 solana.PublicKey
}

// WithdrawFromTreasuryArgs are the arguments of withdraw_from_treasury.
type WithdrawFromTreasuryArgs struct {
	Amount uint64
}

// BuildWithdrawFromTreasury constructs the withdraw_from_treasury
// instruction. Only the house authority can sign it.
func BuildWithdrawFromTreasury(a WithdrawFromTreasuryAccounts, args WithdrawFromTreasuryArgs) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"treasuryMint": a.TreasuryMint,
		"authority":    a.Authority,
		"destination":  a.TreasuryWithdrawalDestination,
		"treasury":     a.AuctionHouseTreasury,
		"auctionHouse": a.AuctionHouse,
	}); err != nil {
		return nil, err
	}
	if err := requireAmount(args.Amount); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("withdraw_from_treasury")
	data = append(data, u64LE(args.Amount)...)

	metas := []*solana.AccountMeta{
		meta(a.TreasuryMint, false, false),
		meta(a.Authority, false, true),
		meta(a.TreasuryWithdrawalDestination, true, false),
		meta(a.AuctionHouseTreasury, true, false),
		meta(a.AuctionHouse, true, false),
		meta(a.TokenProgram, false, false),
		meta(a.SystemProgram, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// ReceiptAccounts are the accounts shared by print_listing_receipt and
// print_bid_receipt.
type ReceiptAccounts struct {
	Receipt       solana.PublicKey
	Bookkeeper    solana.PublicKey
	SystemProgram solana.PublicKey
	Rent          solana.PublicKey
	Instruction   solana.PublicKey
}

// BuildPrintListingReceipt constructs print_listing_receipt. Receipts are
// printed only after the trade state they reference exists in the same
// transaction.
func BuildPrintListingReceipt(a ReceiptAccounts, receiptBump uint8) (solana.Instruction, error) {
	return buildPrintReceipt("print_listing_receipt", a, receiptBump)
}

// BuildPrintBidReceipt constructs print_bid_receipt.
func BuildPrintBidReceipt(a ReceiptAccounts, receiptBump uint8) (solana.Instruction, error) {
	return buildPrintReceipt("print_bid_receipt", a, receiptBump)
}

func buildPrintReceipt(name string, a ReceiptAccounts, receiptBump uint8) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"receipt":    a.Receipt,
		"bookkeeper": a.Bookkeeper,
	}); err != nil {
		return nil, err
	}
	data := anchorDiscriminator(name)
	data = append(data, receiptBump)

	metas := []*solana.AccountMeta{
		meta(a.Receipt, true, false),
		meta(a.Bookkeeper, true, true),
		meta(a.SystemProgram, false, false),
		meta(a.Rent, false, false),
		meta(a.Instruction, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// PurchaseReceiptAccounts are the accounts of print_purchase_receipt.
type PurchaseReceiptAccounts struct {
	PurchaseReceipt solana.PublicKey
	ListingReceipt  solana.PublicKey
	BidReceipt      solana.PublicKey
	Bookkeeper      solana.PublicKey
	SystemProgram   solana.PublicKey
	Rent            solana.PublicKey
	Instruction     solana.PublicKey
}

// BuildPrintPurchaseReceipt constructs print_purchase_receipt.
func BuildPrintPurchaseReceipt(a PurchaseReceiptAccounts, purchaseReceiptBump uint8) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"purchaseReceipt": a.PurchaseReceipt,
		"listingReceipt":  a.ListingReceipt,
		"bidReceipt":      a.BidReceipt,
		"bookkeeper":      a.Bookkeeper,
	}); err != nil {
		return nil, err
	}
	data := anchorDiscriminator("print_purchase_receipt")
	data = append(data, purchaseReceiptBump)

	metas := []*solana.AccountMeta{
		meta(a.PurchaseReceipt, true, false),
		meta(a.ListingReceipt, true, false),
		meta(a.BidReceipt, true, false),
		meta(a.Bookkeeper, true, true),
		meta(a.SystemProgram, false, false),
		meta(a.Rent, false, false),
		meta(a.Instruction, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

// CancelReceiptAccounts are the accounts shared by cancel_listing_receipt
// and cancel_bid_receipt.
type CancelReceiptAccounts struct {
	Receipt       solana.PublicKey
	SystemProgram solana.PublicKey
	Instruction   solana.PublicKey
}

// BuildCancelListingReceipt constructs cancel_listing_receipt.
func BuildCancelListingReceipt(a CancelReceiptAccounts) (solana.Instruction, error) {
	return buildCancelReceipt("cancel_listing_receipt", a)
}

// BuildCancelBidReceipt constructs cancel_bid_receipt.
func BuildCancelBidReceipt(a CancelReceiptAccounts) (solana.Instruction, error) {
	return buildCancelReceipt("cancel_bid_receipt", a)
}

func buildCancelReceipt(name string, a CancelReceiptAccounts) (solana.Instruction, error) {
	if err := requireKeys(map[string]solana.PublicKey{
		"receipt": a.Receipt,
	}); err != nil {
		return nil, err
	}
	data := anchorDiscriminator(name)

	metas := []*solana.AccountMeta{
		meta(a.Receipt, true, false),
		meta(a.SystemProgram, false, false),
		meta(a.Instruction, false, false),
	}
	return solana.NewInstruction(ProgramKey, metas, data), nil
}

func requireKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if key.IsZero() {
			return fmt.Errorf("account %s is required", name)
		}
	}
	return nil
}

// requireOrder validates the price/size pair of an order-shaped argument
// set. A zero price or size would derive a trade state no standing order
// can match, so it is rejected before an instruction is emitted.
func requireOrder(price, size uint64) error {
	if price == 0 {
		return fmt.Errorf("buyerPrice must be greater than 0")
	}
	if size == 0 {
		return fmt.Errorf("tokenSize must be greater than 0")
	}
	return nil
}

func requireAmount(amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}
