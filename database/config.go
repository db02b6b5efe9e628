package database

type Config struct {
	Dialect    string `mapstructure:"dialect"`
	Datasource string `mapstructure:"datasource"`
	// Migrate runs schema auto-migration for registered models at startup.
	Migrate bool `mapstructure:"migrate"`
}

func (c Config) withDefaults() Config {
	if c.Dialect == "" {
		c.Dialect = "sqlite"
	}
	if c.Datasource == "" && ParseDialect(c.Dialect) == "sqlite3" {
		c.Datasource = "skyline.db"
	}
	return c
}
