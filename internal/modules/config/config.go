package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatIDTelegramENV = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	binanceAPIKeyENV  = "BINANCE_API_KEY"
	binanceAPISecret  = "BINANCE_API_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		// По умолчанию — фьючерсный тестнет, боевой URL включается конфигом.
		BaseURL string `yaml:"base_url"`
		WSURL   string `yaml:"ws_url"`
	} `yaml:"binance"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Потолок одновременно висящих ордеров на счёте. Проверка best-effort:
	// два сигнала подряд могут оба пройти под лимитом (см. trade.PlaceBracket).
	MaxOpenOrders int `yaml:"max_open_orders"`
	Leverage      int `yaml:"leverage"`

	// Жёсткий потолок капитала под риском в USDT; депозит больше —
	// в работу всё равно идёт не более CapitalCap.
	CapitalCap float64 `yaml:"capital_cap"`

	// TP = rate + TakeProfitOffset (абсолютный сдвиг, не процент).
	TakeProfitOffset float64 `yaml:"take_profit_offset"`
	// SL = rate * StopLossFactor. Дефолт 0.01 воспроизводит поведение
	// исходного бота как есть: стоп на 99% ниже цены. Почти наверняка
	// там имелось в виду rate*0.99 — не менять без подтверждения продукта.
	StopLossFactor float64 `yaml:"stop_loss_factor"`

	QtyPrecision   int `yaml:"qty_precision"`
	PricePrecision int `yaml:"price_precision"`

	// Символы для прогрева кэша mark-price по WebSocket (опционально).
	WatchSymbols []string `yaml:"watch_symbols"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		MaxOpenOrders:    intFromEnv("MAX_OPEN_ORDERS", 6),
		Leverage:         intFromEnv("LEVERAGE", 5),
		CapitalCap:       floatFromEnv("CAPITAL_CAP", 100),
		TakeProfitOffset: floatFromEnv("TAKE_PROFIT_OFFSET", 1.0),
		StopLossFactor:   floatFromEnv("STOP_LOSS_FACTOR", 0.01),
		QtyPrecision:     intFromEnv("QTY_PRECISION", 3),
		PricePrecision:   intFromEnv("PRICE_PRECISION", 2),
	}
	config.Binance.BaseURL = getenvDefault("BINANCE_BASE_URL", "https://testnet.binancefuture.com")
	config.Binance.WSURL = getenvDefault("BINANCE_WS_URL", "wss://fstream.binancefuture.com")

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}
	if v := os.Getenv(chatIDTelegramENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(binanceAPIKeyENV); v != "" {
		config.Binance.APIKey = v
	}
	if v := os.Getenv(binanceAPISecret); v != "" {
		config.Binance.APISecret = v
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
