package config

// Bot: Telegram-фронтенд. Без токена бот не запускается.
type Bot struct {
	Token        string  `env:"BOT_TOKEN" json:"-"`
	AllowedChats []int64 `env:"BOT_ALLOWED_CHATS" envSeparator:","`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}
