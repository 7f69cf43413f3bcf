package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Set assigns a single value addressed as "section.key=value"
// (e.g. "backend.base_url=http://localhost:8000/webslayer").
func (c *Config) Set(assignment string) error {
	parts := strings.SplitN(assignment, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(strings.TrimSpace(parts[0]), ".")
	value := strings.TrimSpace(parts[1])
	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}
	section, key := keyPath[0], keyPath[1]

	switch section {
	case "backend":
		switch key {
		case "base_url":
			c.Backend.BaseURL = value
		case "timeout_seconds":
			return setInt(&c.Backend.TimeoutSeconds, key, value)
		default:
			return fmt.Errorf("unknown backend key: %s", key)
		}
	case "api":
		switch key {
		case "host":
			c.API.Host = value
		case "port":
			return setInt(&c.API.Port, key, value)
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "poll":
		switch key {
		case "interval_seconds":
			return setInt(&c.Poll.IntervalSeconds, key, value)
		default:
			return fmt.Errorf("unknown poll key: %s", key)
		}
	case "redis":
		switch key {
		case "addr":
			c.Redis.Addr = value
		case "password":
			c.Redis.Password = value
		case "db":
			return setInt(&c.Redis.DB, key, value)
		case "report_ttl_seconds":
			return setInt(&c.Redis.ReportTTLSeconds, key, value)
		case "rate_limit":
			return setInt(&c.Redis.RateLimit, key, value)
		case "rate_window_seconds":
			return setInt(&c.Redis.RateWindowSeconds, key, value)
		default:
			return fmt.Errorf("unknown redis key: %s", key)
		}
	case "storage":
		switch key {
		case "endpoint":
			c.Storage.Endpoint = value
		case "bucket":
			c.Storage.Bucket = value
		case "access_key":
			c.Storage.AccessKey = value
		case "secret_key":
			c.Storage.SecretKey = value
		case "use_ssl":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid use_ssl value: %s", value)
			}
			c.Storage.UseSSL = b
		default:
			return fmt.Errorf("unknown storage key: %s", key)
		}
	case "database":
		switch key {
		case "url":
			c.Database.URL = value
		default:
			return fmt.Errorf("unknown database key: %s", key)
		}
	case "log":
		switch key {
		case "level":
			c.Log.Level = value
		case "file":
			c.Log.File = value
		default:
			return fmt.Errorf("unknown log key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s value: %s", key, value)
	}
	*dst = n
	return nil
}
