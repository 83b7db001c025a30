package parser

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	nonceSize  = 16
	tagSize    = 16
	headerSize = saltSize + nonceSize + tagSize

	kdfIterations = 100000
	keySize       = 32
)

// DecryptFile 解密 AES-256-GCM 加密的聊天记录
// 文件格式: salt(16) + nonce(16) + tag(16) + ciphertext
func DecryptFile(path string, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", ErrInputRead, err)
	}
	return Decrypt(data, password)
}

// Decrypt 解密内存中的加密数据，格式同 DecryptFile
func Decrypt(data []byte, password string) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: encrypted file too small", ErrInputRead)
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	tag := data[saltSize+nonceSize : headerSize]
	ciphertext := data[headerSize:]

	key := pbkdf2.Key([]byte(password), salt, kdfIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	// GCM 的 Open 需要 ciphertext+tag 拼在一起；拷贝一份避免改写调用方的切片
	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt: %w", ErrInputRead, err)
	}

	return plaintext, nil
}
