package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	Session Session
	Catalog Catalog
	Cache   Cache
	Rate    Rate
	Log     Log
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime   time.Duration `conf:"default:24h"`
	CookieName string        `conf:"default:shop_session"`
	Secure     bool          `conf:"default:false"`
}

type Catalog struct {
	URL     string        `conf:"default:https://dummyjson.com"`
	Timeout time.Duration `conf:"default:10s"`
	// UserID is the account carts are posted under on the remote service.
	UserID   int  `conf:"default:1"`
	SyncCart bool `conf:"default:false"`
}

type Cache struct {
	TTL      time.Duration `conf:"default:5m"`
	RedisURL string        `conf:"mask"`
}

type Rate struct {
	Burst  int     `conf:"default:20"`
	RPS    float64 `conf:"default:10"`
	Expiry int     `conf:"default:10"`
}

type Log struct {
	Level string `conf:"default:info"`
}
