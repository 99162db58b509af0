package config

import (
	"fmt"
	"strings"
)

const (
	// StoreMemory keeps products in process memory. Nothing survives a restart.
	StoreMemory = "memory"
	// StorePostgres persists products through gorm on PostgreSQL.
	StorePostgres = "postgres"
)

type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreMemory, StorePostgres:
		return nil
	default:
		return fmt.Errorf("unknown store driver %q, expected %q or %q", c.Driver, StoreMemory, StorePostgres)
	}
}
