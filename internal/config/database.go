package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPostgresPort    = "5432"
	defaultPostgresSSLMode = "disable"
)

// Database holds the connection parameters for the highscore database.
type Database struct {
	User     string
	Password string
	Host     string
	Port     uint16
	Name     string
	SSLMode  string
}

func lookupRequired(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("no %s env variable set", key)
	}
	return v, nil
}

func lookupDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// POSTGRES_PASSWORD wins over POSTGRES_PASSWORD_FILE.
func postgresPassword() (string, error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, nil
	}
	path, err := lookupRequired("POSTGRES_PASSWORD_FILE")
	if err != nil {
		return "", fmt.Errorf("neither POSTGRES_PASSWORD nor POSTGRES_PASSWORD_FILE is set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func NewDatabase() (*Database, error) {
	var (
		db  Database
		err error
	)
	if db.User, err = lookupRequired("POSTGRES_USER"); err != nil {
		return nil, err
	}
	if db.Host, err = lookupRequired("POSTGRES_HOST"); err != nil {
		return nil, err
	}
	if db.Name, err = lookupRequired("POSTGRES_DB"); err != nil {
		return nil, err
	}
	if db.Password, err = postgresPassword(); err != nil {
		return nil, err
	}

	port, err := strconv.ParseUint(lookupDefault("POSTGRES_PORT", defaultPostgresPort), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}
	db.Port = uint16(port)
	db.SSLMode = lookupDefault("POSTGRES_SSLMODE", defaultPostgresSSLMode)

	return &db, nil
}

func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port))),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// DatabaseURL is DATABASE_URL, or a URL assembled from the POSTGRES_* variables.
func DatabaseURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok && dbURL != "" {
		return dbURL, nil
	}
	db, err := NewDatabase()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set: %w", err)
	}
	return db.URL(), nil
}
