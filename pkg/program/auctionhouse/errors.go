package auctionhouse

// ProgramErrorDef describes one entry of the program's error table.
type ProgramErrorDef struct {
	Code uint32
	Name string
	Msg  string
}

var errorTable = map[uint32]ProgramErrorDef{
	6000: {6000, "PublicKeyMismatch", "PublicKeyMismatch"},
	6001: {6001, "InvalidMintAuthority", "InvalidMintAuthority"},
	6002: {6002, "UninitializedAccount", "UninitializedAccount"},
	6003: {6003, "IncorrectOwner", "IncorrectOwner"},
	6004: {6004, "PublicKeysShouldBeUnique", "PublicKeysShouldBeUnique"},
	6005: {6005, "StatementFalse", "StatementFalse"},
	6006: {6006, "NotRentExempt", "NotRentExempt"},
	6007: {6007, "NumericalOverflow", "NumericalOverflow"},
	6008: {6008, "ExpectedSolAccount", "Expected a sol account but got an spl token account instead"},
	6009: {6009, "CannotExchangeSOLForSol", "Cannot exchange sol for sol"},
	6010: {6010, "SOLWalletMustSign", "If paying with sol, sol wallet must be signer"},
	6011: {6011, "CannotTakeThisActionWithoutAuctionHouseSignOff", "Cannot take this action without auction house signing too"},
	6012: {6012, "NoPayerPresent", "No payer present on this txn"},
	6013: {6013, "DerivedKeyInvalid", "Derived key invalid"},
	6014: {6014, "MetadataDoesntExist", "Metadata doesn't exist"},
	6015: {6015, "InvalidTokenAmount", "Invalid token amount"},
	6016: {6016, "BothPartiesNeedToAgreeToSale", "Both parties need to agree to this sale"},
	6017: {6017, "CannotMatchFreeSalesWithoutAuctionHouseOrSellerSignoff", "Cannot match free sales unless the auction house or seller signs off"},
	6018: {6018, "SaleRequiresSigner", "This sale requires a signer"},
	6019: {6019, "OldSellerNotInitialized", "Old seller not initialized"},
	6020: {6020, "SellerATACannotHaveDelegate", "Seller ata cannot have a delegate set"},
	6021: {6021, "BuyerATACannotHaveDelegate", "Buyer ata cannot have a delegate set"},
	6022: {6022, "NoValidSignerPresent", "No valid signer present"},
	6023: {6023, "InvalidBasisPoints", "BP must be less than or equal to 10000"},
}

// ErrorFromCode looks up a program error by its custom error code.
func ErrorFromCode(code uint32) (ProgramErrorDef, bool) {
	def, ok := errorTable[code]
	return def, ok
}
