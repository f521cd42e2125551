package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Platform 导出来源
type Platform string

const (
	PlatformAuto         Platform = "auto"
	PlatformWhatsApp     Platform = "whatsapp"
	PlatformSignal       Platform = "signal"
	PlatformTelegram     Platform = "telegram"
	PlatformTelegramHTML Platform = "telegram-html"
	PlatformFacebook     Platform = "facebook"
	PlatformInstagram    Platform = "instagram"
	PlatformWeChat       Platform = "wechat"
)

// Platforms 返回所有可显式指定的平台
func Platforms() []Platform {
	return []Platform{
		PlatformWhatsApp,
		PlatformSignal,
		PlatformTelegram,
		PlatformTelegramHTML,
		PlatformFacebook,
		PlatformInstagram,
		PlatformWeChat,
	}
}

// New 根据平台创建解析器
func New(platform Platform, opts Options) (Parser, error) {
	switch Platform(strings.ToLower(string(platform))) {
	case PlatformWhatsApp:
		return NewWhatsAppParser(opts), nil
	case PlatformSignal:
		return NewSignalParser(opts), nil
	case PlatformTelegram:
		return NewTelegramJSONParser(opts), nil
	case PlatformTelegramHTML:
		return NewTelegramHTMLParser(opts), nil
	case PlatformFacebook:
		return NewFacebookParser(opts), nil
	case PlatformInstagram:
		return NewInstagramParser(opts), nil
	case PlatformWeChat:
		return NewWeChatParser(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
}

// Detect 根据扩展名与文件开头的内容猜测平台
// Facebook 与 Instagram 的 JSON 结构无法区分，需要显式指定
func Detect(path string, head []byte) (Platform, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".html", ".htm":
		return PlatformTelegramHTML, nil
	case ".json":
		if bytes.Contains(head, []byte(`"date_unixtime"`)) {
			return PlatformTelegram, nil
		}
		return "", fmt.Errorf("%w: cannot tell facebook from instagram for %s, set the platform explicitly", ErrUnknownPlatform, path)
	}

	for _, line := range strings.Split(string(head), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if signalBoundaryRe.MatchString(line) {
			return PlatformSignal, nil
		}
		// WeChat 的时间戳行同样满足 WhatsApp 的宽松语法，先按昵称位置区分
		if m := wechatHeaderRe.FindStringSubmatch(line); m != nil && !strings.HasPrefix(m[2], "- ") {
			return PlatformWeChat, nil
		}
		if whatsappBoundaryRe.MatchString(line) {
			return PlatformWhatsApp, nil
		}
	}
	return "", fmt.Errorf("%w: no known message header in %s", ErrUnknownPlatform, path)
}
