package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

var (
	errInvalidReceiptFormat = errors.New("receipt: invalid encoded format")
	errInvalidConfig        = errors.New("receipt: invalid configuration")
)

// ReceiptConfig defines tunable Argon2id parameters for credential receipts.
// A receipt is a hash of a generated password handed to the caller so that a
// downstream system can verify delivery without the plaintext ever being
// stored here.
type ReceiptConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultReceiptConfig returns the default Argon2id receipt configuration.
func DefaultReceiptConfig() ReceiptConfig {
	return ReceiptConfig{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// ReceiptHasher produces and verifies Argon2id receipts.
type ReceiptHasher struct {
	cfg ReceiptConfig
}

// NewReceiptHasher validates the configuration and returns a hasher.
func NewReceiptHasher(cfg ReceiptConfig) (*ReceiptHasher, error) {
	if cfg.Memory < 8*1024 {
		return nil, fmt.Errorf("%w: memory must be at least 8192", errInvalidConfig)
	}
	if cfg.Iterations == 0 {
		return nil, fmt.Errorf("%w: iterations must be greater than zero", errInvalidConfig)
	}
	if cfg.Parallelism == 0 {
		return nil, fmt.Errorf("%w: parallelism must be greater than zero", errInvalidConfig)
	}
	if cfg.SaltLength < 8 {
		return nil, fmt.Errorf("%w: salt length must be at least 8 bytes", errInvalidConfig)
	}
	if cfg.KeyLength < 16 {
		return nil, fmt.Errorf("%w: key length must be at least 16 bytes", errInvalidConfig)
	}
	return &ReceiptHasher{cfg: cfg}, nil
}

// Hash generates an Argon2id receipt for the provided value. The returned
// string embeds the parameters, salt, and hash in a portable format:
// argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>
func (h *ReceiptHasher) Hash(value string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("receipt: generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(value), salt, h.cfg.Iterations, h.cfg.Memory, h.cfg.Parallelism, h.cfg.KeyLength)

	encoded := strings.Join([]string{
		argon2Variant,
		argon2Version,
		fmt.Sprintf("m=%d,t=%d,p=%d", h.cfg.Memory, h.cfg.Iterations, h.cfg.Parallelism),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	}, "$")

	return encoded, nil
}

// Verify reports whether value matches the encoded receipt. The parameters
// embedded in the receipt take precedence over the hasher's configuration so
// receipts survive parameter upgrades.
func (h *ReceiptHasher) Verify(value, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != argon2Variant || parts[1] != argon2Version {
		return false, errInvalidReceiptFormat
	}

	var memory, iterations uint32
	var parallelism uint8
	for _, param := range strings.Split(parts[2], ",") {
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			return false, errInvalidReceiptFormat
		}
		n, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return false, errInvalidReceiptFormat
		}
		switch kv[0] {
		case "m":
			memory = uint32(n)
		case "t":
			iterations = uint32(n)
		case "p":
			parallelism = uint8(n)
		default:
			return false, errInvalidReceiptFormat
		}
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false, errInvalidReceiptFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errInvalidReceiptFormat
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errInvalidReceiptFormat
	}

	sum := argon2.IDKey([]byte(value), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(sum, expected) == 1, nil
}
