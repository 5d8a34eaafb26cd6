package backend

import (
	"errors"
	"fmt"

	"cofrinho/internal/config"
)

// BackendType names a ledger store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	}
	return false
}

// Config holds what the factory needs to assemble the ledger.
type Config struct {
	Type BackendType

	// Event bus, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	cfg := Config{
		Type:         BackendType(appConfig.LedgerBackend),
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("AMQP exchange and queue are required when AMQP is enabled")
	}
	return nil
}

// BackendTypes returns every supported backend name.
func BackendTypes() []string {
	return []string{MemoryBackend.String(), SQLiteBackend.String()}
}
