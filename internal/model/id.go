package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID はJSON上で数値・数値文字列のどちらでも受け付ける行ID。
// フロントエンドは authorId を string | number で送信するため、両方を許容する。
type ID int64

// ParseID は文字列を正のIDとして解釈する。
func ParseID(raw string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, NewInvalidIDError(raw)
	}
	return ID(n), nil
}

// UnmarshalJSON は数値または数値文字列をIDとして読み込む。
// nullと空文字列はゼロ値（未指定）として扱う。
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", s, err)
		}
		*id = ID(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n)
	return nil
}

// String はIDを10進文字列で返す。
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsZero はIDが未指定かどうかを返す。
func (id ID) IsZero() bool {
	return id <= 0
}
