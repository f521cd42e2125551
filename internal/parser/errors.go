package parser

import "errors"

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrFormatInference = errors.New("cannot infer date format")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrChatNotFound    = errors.New("chat not found")

	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// 以下为单条消息级错误，只出现在诊断中
	ErrUnparseableDate  = errors.New("unparseable date")
	ErrMissingSeparator = errors.New("missing date/author separator")
)
