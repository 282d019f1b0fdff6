// Package types 定义 WebRouter 的基础类型
//
// 本文件定义四词网络身份及其规范化规则。
package types

import "strings"

// NetworkIdentity 四词网络身份
//
// 一旦解析完成即不可变：新的解析产生新值，从不原地修改。
type NetworkIdentity struct {
	// FourWords 规范形式的四词地址（小写、连字符连接、恰好 4 个词）
	FourWords string

	// PublicKey 身份公钥字节
	PublicKey []byte

	// DHTAddress 身份在 DHT 网络中的地址
	DHTAddress string
}

// ParseFourWords 将输入规范化为四词地址
//
// 接受空格或连字符分隔的输入，统一转为小写并用连字符连接。
// 词数不为 4 时返回错误。
//
// 失败:
//   - ErrEmptyFourWords: 输入为空或仅含分隔符
//   - ErrInvalidFourWords: 词数不为 4
func ParseFourWords(input string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return "", ErrEmptyFourWords
	}

	// 统一分隔符后按连字符切分
	s = strings.ReplaceAll(s, " ", "-")
	parts := strings.Split(s, "-")

	words := make([]string, 0, 4)
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, p)
	}

	if len(words) == 0 {
		return "", ErrEmptyFourWords
	}
	if len(words) != 4 {
		return "", ErrInvalidFourWords
	}

	return strings.Join(words, "-"), nil
}

// IsValidFourWords 判断输入是否为有效的四词地址
func IsValidFourWords(input string) bool {
	_, err := ParseFourWords(input)
	return err == nil
}
