package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liao/chatcal/internal/parser"
)

var errDecryptKeyRequired = errors.New("--decrypt-key (or DECRYPT_KEY env) required for .enc transcripts")

// readTranscript 读取并解析聊天记录；.enc 文件或显式给了 --decrypt-key 时先解密
// DECRYPT_KEY 环境变量只用于 .enc 文件，普通文本照常解析
func readTranscript(path, decryptKey string) ([]parser.Record, error) {
	encrypted := strings.EqualFold(filepath.Ext(path), ".enc")

	if !encrypted && decryptKey == "" {
		return parser.ParseFile(path)
	}
	if decryptKey == "" {
		decryptKey = os.Getenv("DECRYPT_KEY")
	}
	if decryptKey == "" {
		return nil, errDecryptKeyRequired
	}

	plaintext, err := parser.DecryptFile(path, decryptKey)
	if err != nil {
		return nil, err
	}
	slog.Debug("decrypted transcript", "bytes", len(plaintext))

	records, err := parser.Parse(bytes.NewReader(plaintext))

	// 清除内存中的明文
	for i := range plaintext {
		plaintext[i] = 0
	}
	return records, err
}
