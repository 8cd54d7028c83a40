package solana

import (
	"bytes"
	"encoding/binary"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Gateway program instruction discriminators.
const (
	instructionMint byte = 1
	instructionBurn byte = 2
)

// MintInstruction builds the gateway program instruction finalizing a mint.
// The secp instruction carrying the network signature must be part of the
// same transaction.
func MintInstruction(
	payer, gatewayAccount, tokenMint, recipientTokenAccount,
	mintLogAccount, mintAuthority, program solanago.PublicKey,
) solanago.Instruction {
	return solanago.NewInstruction(
		program,
		solanago.AccountMetaSlice{
			solanago.Meta(payer).SIGNER().WRITE(),
			solanago.Meta(gatewayAccount),
			solanago.Meta(tokenMint).WRITE(),
			solanago.Meta(recipientTokenAccount).WRITE(),
			solanago.Meta(mintLogAccount).WRITE(),
			solanago.Meta(mintAuthority),
			solanago.Meta(solanago.SystemProgramID),
			solanago.Meta(solanago.SysVarInstructionsPubkey),
			solanago.Meta(solanago.SysVarRentPubkey),
			solanago.Meta(token.ProgramID),
		},
		[]byte{instructionMint},
	)
}

// BurnInstruction builds the gateway program instruction recording a burn
// and its release recipient.
func BurnInstruction(
	account, source, gatewayAccount, tokenMint, burnLogAccount, program solanago.PublicKey,
	recipient []byte,
) solanago.Instruction {
	data := make([]byte, 0, 1+len(recipient))
	data = append(data, instructionBurn)
	data = append(data, recipient...)

	return solanago.NewInstruction(
		program,
		solanago.AccountMetaSlice{
			solanago.Meta(account).SIGNER().WRITE(),
			solanago.Meta(source).WRITE(),
			solanago.Meta(gatewayAccount).WRITE(),
			solanago.Meta(tokenMint).WRITE(),
			solanago.Meta(burnLogAccount).WRITE(),
			solanago.Meta(solanago.SystemProgramID),
			solanago.Meta(solanago.SysVarInstructionsPubkey),
			solanago.Meta(solanago.SysVarRentPubkey),
		},
		data,
	)
}

// SecpInstruction builds the native secp256k1 program instruction verifying
// the network authority's signature over message. instructionIndex is the
// position of this instruction inside the transaction.
func SecpInstruction(
	ethAddress []byte, message []byte, signature []byte, recoveryID byte, instructionIndex uint8,
) (solanago.Instruction, error) {
	if len(ethAddress) != 20 {
		return nil, fmt.Errorf("eth address must be 20 bytes, got %d", len(ethAddress))
	}

	if len(signature) != 64 {
		return nil, fmt.Errorf("signature must be 64 bytes, got %d", len(signature))
	}

	const (
		headerSize        = 12 // count byte + offsets struct
		ethAddressOffset  = headerSize
		signatureOffset   = ethAddressOffset + 20
		messageDataOffset = signatureOffset + 64 + 1
	)

	var buf bytes.Buffer

	buf.WriteByte(1) // signature count

	offsets := make([]byte, 11)
	binary.LittleEndian.PutUint16(offsets[0:], signatureOffset)
	offsets[2] = instructionIndex
	binary.LittleEndian.PutUint16(offsets[3:], ethAddressOffset)
	offsets[5] = instructionIndex
	binary.LittleEndian.PutUint16(offsets[6:], messageDataOffset)
	binary.LittleEndian.PutUint16(offsets[8:], uint16(len(message)))
	offsets[10] = instructionIndex
	buf.Write(offsets)

	buf.Write(ethAddress)
	buf.Write(signature)
	buf.WriteByte(recoveryID)
	buf.Write(message)

	return solanago.NewInstruction(
		solanago.Secp256k1ProgramID,
		solanago.AccountMetaSlice{},
		buf.Bytes(),
	), nil
}

// MintLogAccount derives the account recording a finished mint, seeded by
// the keccak digest of the signed message.
func MintLogAccount(program solanago.PublicKey, renVMMessageHash []byte) (solanago.PublicKey, error) {
	account, _, err := solanago.FindProgramAddress([][]byte{renVMMessageHash}, program)

	return account, err
}

// BurnLogAccount derives the account recording a burn, seeded by the burn
// nonce in the program's native byte order.
func BurnLogAccount(program solanago.PublicKey, nonce uint64) (solanago.PublicKey, error) {
	var seed [8]byte

	binary.LittleEndian.PutUint64(seed[:], nonce)

	account, _, err := solanago.FindProgramAddress([][]byte{seed[:]}, program)

	return account, err
}

// MintAuthority derives the gateway program's mint authority for a token.
func MintAuthority(program, tokenMint solanago.PublicKey) (solanago.PublicKey, error) {
	authority, _, err := solanago.FindProgramAddress([][]byte{tokenMint.Bytes()}, program)

	return authority, err
}
