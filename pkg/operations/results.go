// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

// Per-operation result payloads. Field names match the wire contract.

// EncodingResult is the payload for the encode and decode operations.
type EncodingResult struct {
	Output string `json:"output"`
}

// RandomResult is the payload for the random generation operations.
type RandomResult struct {
	Output         string `json:"output"`
	BytesGenerated int    `json:"bytes_generated"`
}

// HashResult is the payload for the hash operation.
type HashResult struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

// HmacResult is the payload for the hmac operation.
type HmacResult struct {
	Mac       string `json:"mac"`
	Algorithm string `json:"algorithm"`
}

// AesKeygenResult is the payload for aes_keygen.
type AesKeygenResult struct {
	KeyHex     string `json:"key_hex"`
	IVHex      string `json:"iv_hex"`
	HmacKeyHex string `json:"hmac_key_hex"`
	KeyBits    int    `json:"key_bits"`
}

// AesEncryptResult is the payload for aes_encrypt.
type AesEncryptResult struct {
	CiphertextBase64 string `json:"ciphertext_base64"`
	IVHex            string `json:"iv_hex"`
	HmacHex          string `json:"hmac_hex"`
	Cipher           string `json:"cipher"`
}

// AesDecryptResult is the payload for aes_decrypt.
type AesDecryptResult struct {
	Plaintext    string `json:"plaintext"`
	HmacVerified bool   `json:"hmac_verified"`
}

// RsaKeygenResult is the payload for rsa_keygen.
type RsaKeygenResult struct {
	PrivateKeyPEM string `json:"private_key_pem"`
	PublicKeyPEM  string `json:"public_key_pem"`
	Bits          int    `json:"bits"`
}

// RsaPubkeyResult is the payload for rsa_pubkey.
type RsaPubkeyResult struct {
	PublicKeyPEM string `json:"public_key_pem"`
}

// RsaSignResult is the payload for rsa_sign.
type RsaSignResult struct {
	SignatureBase64 string `json:"signature_base64"`
	HashAlgo        string `json:"hash_algo"`
}

// RsaVerifyResult is the payload for rsa_verify.
type RsaVerifyResult struct {
	Valid    bool   `json:"valid"`
	HashAlgo string `json:"hash_algo"`
}

// RsaEncryptResult is the payload for rsa_encrypt.
type RsaEncryptResult struct {
	CiphertextBase64 string `json:"ciphertext_base64"`
}

// RsaDecryptResult is the payload for rsa_decrypt.
type RsaDecryptResult struct {
	Plaintext string `json:"plaintext"`
}

// PqcKeygenResult is the payload for pqc_sig_keygen.
type PqcKeygenResult struct {
	PrivateKeyPEM string `json:"private_key_pem"`
	PublicKeyPEM  string `json:"public_key_pem"`
	Algorithm     string `json:"algorithm"`
}

// PqcSignResult is the payload for pqc_sig_sign.
type PqcSignResult struct {
	SignatureBase64 string `json:"signature_base64"`
	Algorithm       string `json:"algorithm"`
}

// PqcVerifyResult is the payload for pqc_sig_verify.
type PqcVerifyResult struct {
	Valid     bool   `json:"valid"`
	Algorithm string `json:"algorithm"`
}
