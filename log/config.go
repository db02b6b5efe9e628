package log

type Config struct {
	Level string `mapstructure:"level"`
	// DropFields names fields removed from every entry before encoding.
	DropFields []string `mapstructure:"drop_fields"`
}

// DefaultDropFields keeps raw credentials out of log output.
var DefaultDropFields = []string{"token", "credential"}
