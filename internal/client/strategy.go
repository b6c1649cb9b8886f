package client

import (
	"fmt"
	"log/slog"

	"github.com/hitoshi/intranet/internal/metrics"
)

// Strategy はデータアクセスの方式を表す。SUBMIT_STRATEGYで指定する。
type Strategy string

const (
	// StrategyAPI はREST APIのみを使用する。
	StrategyAPI Strategy = "api"
	// StrategyDirect はサービス層を直接呼び出す。データベース接続が必要。
	StrategyDirect Strategy = "direct"
	// StrategyAPIWithFallback はAPIに到達できない場合のみ直接呼び出しに切り替える。
	StrategyAPIWithFallback Strategy = "api_with_fallback"
)

// ParseStrategy は文字列をStrategyとして解釈する。空文字列はStrategyAPI。
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(raw); s {
	case "":
		return StrategyAPI, nil
	case StrategyAPI, StrategyDirect, StrategyAPIWithFallback:
		return s, nil
	}
	return "", fmt.Errorf("unknown submit strategy %q (use api, direct, or api_with_fallback)", raw)
}

// NeedsDirect は直接アクセス（データベース接続）が必要かどうかを返す。
func (s Strategy) NeedsDirect() bool {
	return s == StrategyDirect || s == StrategyAPIWithFallback
}

// NewBackend はstrategyに応じたBackendを返す。
// directはNeedsDirectがtrueの場合に必須。
func NewBackend(strategy Strategy, api *Client, direct *Direct, collector metrics.MetricsCollector, logger *slog.Logger) (Backend, error) {
	switch strategy {
	case StrategyAPI:
		if api == nil {
			return nil, fmt.Errorf("strategy %s requires an API client", strategy)
		}
		return api, nil
	case StrategyDirect:
		if direct == nil {
			return nil, fmt.Errorf("strategy %s requires a database connection", strategy)
		}
		return direct, nil
	case StrategyAPIWithFallback:
		if api == nil || direct == nil {
			return nil, fmt.Errorf("strategy %s requires an API client and a database connection", strategy)
		}
		return NewFallback(api, direct, collector, logger), nil
	}
	return nil, fmt.Errorf("unknown submit strategy %q", strategy)
}
