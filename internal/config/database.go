// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
)

const applicationName = "asset-audit"

// DSN builds a pgx keyword/value connection string. Timestamps are kept in
// UTC so audit times compare the same across hosts.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC application_name=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode, applicationName,
	)
}

// Redacted renders the target as a URL with the password masked, for logs.
func (d *DatabaseConfig) Redacted() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(d.User),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, "xxxxx")
	}
	return u.String()
}
