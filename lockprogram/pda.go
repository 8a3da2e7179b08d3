package lockprogram

import "github.com/gagliardetto/solana-go"

// DeriveConfigAddress derives the Config singleton PDA: ["config"].
func DeriveConfigAddress() (solana.PublicKey, error) {
	seeds := [][]byte{SeedConfig}
	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

// DeriveEscrowAuthority derives the program-controlled custody signer:
// ["escrow_authority"]. There is no private key for this address; every
// custody move must use exactly this derivation.
func DeriveEscrowAuthority() (solana.PublicKey, error) {
	seeds := [][]byte{SeedEscrowAuthority}
	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

// DeriveLockAccountAddress derives the LockAccount PDA for a user's locked
// position: ["lock", user, position_nft_mint]. Any observer can recompute it
// without querying the program.
func DeriveLockAccountAddress(user, positionNftMint solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{SeedLock, user.Bytes(), positionNftMint.Bytes()}
	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}
