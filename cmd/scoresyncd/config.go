package main

import (
	"fmt"
	"os"

	"scorewatch-backend/lib/notify"
)

type DatabaseConfig struct {
	File string `json:"file"`
}

type PortalConfig struct {
	BaseUrl string `json:"base_url"`
}

type TriggerConfig struct {
	Port int `json:"port"`
}

type ThrottleConfig struct {
	BaseMs   int `json:"base_ms"`
	JitterMs int `json:"jitter_ms"`
}

type Config struct {
	Database DatabaseConfig    `json:"database"`
	Portal   PortalConfig      `json:"portal"`
	Smtp     notify.SmtpConfig `json:"smtp"`
	Trigger  TriggerConfig     `json:"trigger"`
	Throttle ThrottleConfig    `json:"throttle"`
}

// the secrets never live in config files. the portal credentials and
// the trigger token come from the process environment (optionally via
// a .env file).
type Secrets struct {
	Username     string
	Password     string
	TriggerToken string
}

func readSecrets() (Secrets, error) {
	out := Secrets{
		Username:     os.Getenv("SWJTU_USERNAME"),
		Password:     os.Getenv("SWJTU_PASSWORD"),
		TriggerToken: os.Getenv("API_SECRET_TOKEN"),
	}
	if out.Username == "" || out.Password == "" {
		return Secrets{}, fmt.Errorf("SWJTU_USERNAME and SWJTU_PASSWORD must be set")
	}
	if out.TriggerToken == "" {
		return Secrets{}, fmt.Errorf("API_SECRET_TOKEN must be set")
	}
	return out, nil
}
