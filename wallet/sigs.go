package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/swanchain/go-swan-sdk/models"
	"golang.org/x/xerrors"
)

type Signature struct {
	Data []byte
}

func (s *Signature) Hex() string {
	return hexutil.Encode(s.Data)
}

// ParseSignature accepts a 65 byte hex signature with or without the 0x prefix.
// A legacy recovery id of 27/28 is normalized to 0/1.
func ParseSignature(sig string) (*Signature, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(sig), "0x"))
	if err != nil {
		return nil, xerrors.Errorf("decode signature: %w", err)
	}
	if len(data) != crypto.SignatureLength {
		return nil, xerrors.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(data))
	}
	if data[crypto.RecoveryIDOffset] >= 27 {
		data[crypto.RecoveryIDOffset] -= 27
	}
	return &Signature{Data: data}, nil
}

func hexToECDSA(privatekey string) (*ecdsa.PrivateKey, error) {
	if len(strings.TrimSpace(privatekey)) == 0 {
		return nil, fmt.Errorf("wallet private key must be not empty")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privatekey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parses private key error: %+v", err)
	}
	return privateKey, nil
}

// Sign signs keccak256(msg) with the given hex private key.
func Sign(privatekey string, msg []byte) (*Signature, error) {
	privateKey, err := hexToECDSA(privatekey)
	if err != nil {
		return nil, err
	}

	hash := crypto.Keccak256Hash(msg)
	sig, err := crypto.Sign(hash.Bytes(), privateKey)
	if err != nil {
		return nil, err
	}
	return &Signature{Data: sig}, nil
}

// RecoverAddress returns the address that produced sig over keccak256(msg).
func RecoverAddress(sig *Signature, msg []byte) (common.Address, error) {
	if sig == nil || len(sig.Data) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length")
	}
	hash := crypto.Keccak256Hash(msg)
	pub, err := crypto.SigToPub(hash.Bytes(), sig.Data)
	if err != nil {
		return common.Address{}, xerrors.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether sig over msg was produced by addr.
func Verify(sig *Signature, addr string, msg []byte) (bool, error) {
	if !common.IsHexAddress(addr) {
		return false, fmt.Errorf("invalid address: %s", addr)
	}
	signer, err := RecoverAddress(sig, msg)
	if err != nil {
		return false, err
	}
	return signer == common.HexToAddress(addr), nil
}

// ToPublic converts private key to public key
func ToPublic(priv string) (string, *ecdsa.PublicKey, error) {
	privateKey, err := hexToECDSA(priv)
	if err != nil {
		return "", nil, err
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return "", nil, fmt.Errorf("cannot assert type: publicKey is not of type *ecdsa.PublicKey")
	}

	publicKeyBytes := crypto.FromECDSAPub(publicKeyECDSA)
	return hexutil.Encode(publicKeyBytes)[4:], publicKeyECDSA, nil
}

func AddressFromPrivateKey(priv string) (common.Address, error) {
	_, pub, err := ToPublic(priv)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// ContractDetailMessage is the byte string the orchestrator signs for a contract detail.
func ContractDetailMessage(detail models.ContractDetail) ([]byte, error) {
	return json.Marshal(detail)
}

// SignContractDetail produces the hex signature VerifyContractInfo accepts.
func SignContractDetail(privatekey string, detail models.ContractDetail) (string, error) {
	msg, err := ContractDetailMessage(detail)
	if err != nil {
		return "", err
	}
	sig, err := Sign(privatekey, msg)
	if err != nil {
		return "", err
	}
	return sig.Hex(), nil
}

// VerifyContractInfo checks that info was signed by signer. Contract addresses must
// not be used unless this returns nil.
func VerifyContractInfo(info *models.ContractInfo, signer string) error {
	if info == nil {
		return fmt.Errorf("contract info is empty: %w", models.ErrInvalidSignature)
	}
	sig, err := ParseSignature(info.Signature)
	if err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrInvalidSignature)
	}
	msg, err := ContractDetailMessage(info.ContractDetail)
	if err != nil {
		return err
	}
	ok, err := Verify(sig, signer, msg)
	if err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrInvalidSignature)
	}
	if !ok {
		return fmt.Errorf("contract info not signed by %s: %w", signer, models.ErrInvalidSignature)
	}
	if !common.IsHexAddress(info.ContractDetail.PaymentContractAddress) ||
		!common.IsHexAddress(info.ContractDetail.TokenContractAddress) {
		return fmt.Errorf("contract info carries an invalid contract address: %w", models.ErrInvalidSignature)
	}
	return nil
}
