package parser

import (
	"bufio"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ReadLines 按文件顺序读取全部物理行，去掉行尾的 \r\n，不做其他裁剪
// 整个文件本来就会读入内存，所以单行长度不设上限
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read lines: %w", err)
		}
		// 文件末尾没有换行时最后一行仍然保留
		if err == nil || line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			return lines, nil
		}
	}
}

// ReadFileLines 读取文件的全部物理行
func ReadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ReadLines(f)
}

// 加密导出的布局: salt | nonce | tag | ciphertext
const (
	saltSize   = 16
	nonceSize  = 16
	tagSize    = 16
	headerSize = saltSize + nonceSize + tagSize

	kdfIterations = 100000
	keySize       = 32
)

// DecryptFile 解密 AES-256-GCM 加密的导出文件（.enc）
func DecryptFile(path string, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decrypt(data, password)
}

// Decrypt 解密内存中的加密数据，密钥由口令经 PBKDF2-SHA256 派生
func Decrypt(data []byte, password string) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertextTooShort, len(data))
	}
	salt, nonce := data[:saltSize], data[saltSize:saltSize+nonceSize]
	tag, body := data[saltSize+nonceSize:headerSize], data[headerSize:]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	// Open 要求 tag 紧跟在密文之后
	sealed := append(slices.Clip(body), tag...)
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// Encrypt 按 Decrypt 的布局加密，salt 与 nonce 随机生成
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	header := make([]byte, saltSize+nonceSize, headerSize+len(plaintext))
	if _, err := rand.Read(header); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	salt, nonce := header[:saltSize], header[saltSize:]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	body, tag := sealed[:len(plaintext)], sealed[len(plaintext):]
	out := append(header, tag...)
	return append(out, body...), nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}
