package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	// 送料・税は構成値。ビジネス上の秘密ではない。
	ShippingFee           float64 // 送料（デフォルト10）
	FreeShippingThreshold float64 // これ以上で送料無料（デフォルト150）
	TaxRate               float64 // 税率（デフォルト0.08、割引前の小計にかける）

	SessionTTLDays int // ログインセッションの有効日数（デフォルト30）
}

// Loadは環境変数から読む。数値が壊れていればエラー。
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),
	}

	var err error
	if cfg.ShippingFee, err = getenvFloat("SHIPPING_FEE", 10); err != nil {
		return Config{}, err
	}
	if cfg.FreeShippingThreshold, err = getenvFloat("FREE_SHIPPING_THRESHOLD", 150); err != nil {
		return Config{}, err
	}
	if cfg.TaxRate, err = getenvFloat("TAX_RATE", 0.08); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTLDays, err = getenvInt("SESSION_TTL_DAYS", 30); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
