// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package catalog

// =============================================================================
// Operation Catalogue
// =============================================================================

// Category groups operations in catalogue listings.
type Category string

const (
	CategoryEncoding   Category = "encoding"
	CategoryRandom     Category = "random"
	CategoryHashing    Category = "hashing"
	CategorySymmetric  Category = "symmetric"
	CategoryAsymmetric Category = "asymmetric"
	CategoryPQC        Category = "pqc"
)

// Parameter describes one parameter of a catalogue operation.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Operation describes one entry of the operation catalogue, surfaced through
// the listing endpoints and the CLI.
type Operation struct {
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Example     string      `json:"example"`
}

// Operations returns the closed set of supported operations in a stable order.
func (c *Config) Operations() []Operation {
	return operationCatalogue
}

// HasOperation reports whether the named operation is in the catalogue.
func (c *Config) HasOperation(name string) bool {
	for _, op := range operationCatalogue {
		if op.Name == name {
			return true
		}
	}
	return false
}

var operationCatalogue = []Operation{
	{
		Name:        "base64_encode",
		Category:    CategoryEncoding,
		Description: "Encode data to standard base64",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to encode"},
		},
		Example: "openssl enc -base64 -A",
	},
	{
		Name:        "base64_decode",
		Category:    CategoryEncoding,
		Description: "Decode standard base64 to the original data",
		Parameters: []Parameter{
			{Name: "encoded", Type: "string", Required: true, Description: "Base64 input"},
		},
		Example: "openssl enc -base64 -d -A",
	},
	{
		Name:        "hex_encode",
		Category:    CategoryEncoding,
		Description: "Encode data to lowercase hex",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to encode"},
		},
		Example: "xxd -p -c 256",
	},
	{
		Name:        "hex_decode",
		Category:    CategoryEncoding,
		Description: "Decode hex to the original data",
		Parameters: []Parameter{
			{Name: "hex", Type: "string", Required: true, Description: "Hex input"},
		},
		Example: "xxd -r -p",
	},
	{
		Name:        "random_bytes",
		Category:    CategoryRandom,
		Description: "Generate cryptographically secure random bytes (hex output)",
		Parameters: []Parameter{
			{Name: "length", Type: "integer", Required: true, Description: "Byte count, 1..1024"},
		},
		Example: "openssl rand -hex 32",
	},
	{
		Name:        "random_hex",
		Category:    CategoryRandom,
		Description: "Generate a random hex string of the given byte length",
		Parameters: []Parameter{
			{Name: "length", Type: "integer", Required: true, Description: "Byte count, 1..1024"},
		},
		Example: "openssl rand -hex 16",
	},
	{
		Name:        "random_base64",
		Category:    CategoryRandom,
		Description: "Generate random bytes encoded as base64",
		Parameters: []Parameter{
			{Name: "length", Type: "integer", Required: true, Description: "Byte count, 1..1024"},
		},
		Example: "openssl rand -base64 32",
	},
	{
		Name:        "hash",
		Category:    CategoryHashing,
		Description: "Compute a message digest",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to digest"},
			{Name: "algorithm", Type: "string", Required: false, Description: "Digest algorithm, default sha256"},
		},
		Example: "openssl dgst -sha256 -r",
	},
	{
		Name:        "hmac",
		Category:    CategoryHashing,
		Description: "Compute an HMAC over the data with a hex key",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to authenticate"},
			{Name: "key", Type: "string", Required: true, Description: "HMAC key (hex)"},
			{Name: "algorithm", Type: "string", Required: false, Description: "Digest algorithm, default sha256"},
		},
		Example: "openssl dgst -sha256 -mac hmac -macopt hexkey:<key> -r",
	},
	{
		Name:        "aes_keygen",
		Category:    CategorySymmetric,
		Description: "Generate a symmetric key, IV and HMAC key",
		Parameters: []Parameter{
			{Name: "bits", Type: "integer", Required: false, Description: "Key size in bits: 128, 192 or 256 (default 256)"},
		},
		Example: "openssl rand -hex 32",
	},
	{
		Name:        "aes_encrypt",
		Category:    CategorySymmetric,
		Description: "Encrypt with a block cipher, then authenticate the ciphertext with HMAC-SHA256",
		Parameters: []Parameter{
			{Name: "plaintext", Type: "string", Required: true, Description: "Data to encrypt"},
			{Name: "key", Type: "string", Required: true, Description: "Cipher key (hex)"},
			{Name: "iv", Type: "string", Required: false, Description: "IV (hex); generated when absent"},
			{Name: "hmac_key", Type: "string", Required: true, Description: "HMAC key (hex)"},
			{Name: "cipher", Type: "string", Required: false, Description: "Cipher name, default aes-256-cbc"},
		},
		Example: "openssl enc -aes-256-cbc -e -K <key> -iv <iv>",
	},
	{
		Name:        "aes_decrypt",
		Category:    CategorySymmetric,
		Description: "Verify the ciphertext HMAC, then decrypt",
		Parameters: []Parameter{
			{Name: "ciphertext", Type: "string", Required: true, Description: "Ciphertext (base64)"},
			{Name: "key", Type: "string", Required: true, Description: "Cipher key (hex)"},
			{Name: "iv", Type: "string", Required: true, Description: "IV (hex)"},
			{Name: "hmac_key", Type: "string", Required: true, Description: "HMAC key (hex)"},
			{Name: "hmac", Type: "string", Required: true, Description: "Expected HMAC (hex)"},
			{Name: "cipher", Type: "string", Required: false, Description: "Cipher name, default aes-256-cbc"},
		},
		Example: "openssl enc -aes-256-cbc -d -K <key> -iv <iv>",
	},
	{
		Name:        "rsa_keygen",
		Category:    CategoryAsymmetric,
		Description: "Generate an RSA keypair",
		Parameters: []Parameter{
			{Name: "bits", Type: "integer", Required: true, Description: "Modulus size: 2048, 3072 or 4096"},
		},
		Example: "openssl genpkey -algorithm RSA -pkeyopt rsa_keygen_bits:2048",
	},
	{
		Name:        "rsa_pubkey",
		Category:    CategoryAsymmetric,
		Description: "Derive the public key from an RSA private key",
		Parameters: []Parameter{
			{Name: "private_key", Type: "string", Required: true, Description: "Private key (PEM)"},
		},
		Example: "openssl pkey -in private.pem -pubout",
	},
	{
		Name:        "rsa_sign",
		Category:    CategoryAsymmetric,
		Description: "Sign data with an RSA private key",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to sign"},
			{Name: "private_key", Type: "string", Required: true, Description: "Private key (PEM)"},
			{Name: "hash_algo", Type: "string", Required: false, Description: "Digest algorithm, default sha256"},
		},
		Example: "openssl dgst -sha256 -sign private.pem",
	},
	{
		Name:        "rsa_verify",
		Category:    CategoryAsymmetric,
		Description: "Verify an RSA signature",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Signed data"},
			{Name: "signature", Type: "string", Required: true, Description: "Signature (base64)"},
			{Name: "public_key", Type: "string", Required: true, Description: "Public key (PEM)"},
			{Name: "hash_algo", Type: "string", Required: false, Description: "Digest algorithm, default sha256"},
		},
		Example: "openssl dgst -sha256 -verify public.pem -signature sig.bin",
	},
	{
		Name:        "rsa_encrypt",
		Category:    CategoryAsymmetric,
		Description: "Encrypt with RSA-OAEP (SHA-256)",
		Parameters: []Parameter{
			{Name: "plaintext", Type: "string", Required: true, Description: "Data to encrypt (bounded by key size)"},
			{Name: "public_key", Type: "string", Required: true, Description: "Public key (PEM)"},
		},
		Example: "openssl pkeyutl -encrypt -pubin -inkey public.pem -pkeyopt rsa_padding_mode:oaep -pkeyopt rsa_oaep_md:sha256",
	},
	{
		Name:        "rsa_decrypt",
		Category:    CategoryAsymmetric,
		Description: "Decrypt RSA-OAEP (SHA-256) ciphertext",
		Parameters: []Parameter{
			{Name: "ciphertext", Type: "string", Required: true, Description: "Ciphertext (base64)"},
			{Name: "private_key", Type: "string", Required: true, Description: "Private key (PEM)"},
		},
		Example: "openssl pkeyutl -decrypt -inkey private.pem -pkeyopt rsa_padding_mode:oaep -pkeyopt rsa_oaep_md:sha256",
	},
	{
		Name:        "pqc_sig_keygen",
		Category:    CategoryPQC,
		Description: "Generate a post-quantum signature keypair",
		Parameters: []Parameter{
			{Name: "algorithm", Type: "string", Required: false, Description: "Signature algorithm, default mldsa44"},
		},
		Example: "openssl genpkey -provider oqsprovider -provider default -algorithm mldsa44",
	},
	{
		Name:        "pqc_sig_sign",
		Category:    CategoryPQC,
		Description: "Sign data with a post-quantum private key",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Data to sign"},
			{Name: "private_key", Type: "string", Required: true, Description: "Private key (PEM)"},
			{Name: "algorithm", Type: "string", Required: false, Description: "Signature algorithm, default mldsa44"},
		},
		Example: "openssl pkeyutl -provider oqsprovider -provider default -sign -rawin -inkey private.pem",
	},
	{
		Name:        "pqc_sig_verify",
		Category:    CategoryPQC,
		Description: "Verify a post-quantum signature",
		Parameters: []Parameter{
			{Name: "data", Type: "string", Required: true, Description: "Signed data"},
			{Name: "signature", Type: "string", Required: true, Description: "Signature (base64)"},
			{Name: "public_key", Type: "string", Required: true, Description: "Public key (PEM)"},
			{Name: "algorithm", Type: "string", Required: false, Description: "Signature algorithm, default mldsa44"},
		},
		Example: "openssl pkeyutl -provider oqsprovider -provider default -verify -rawin -pubin -inkey public.pem -sigfile sig.bin",
	},
}
