package config

import (
	"fmt"
	"os"
	"strings"
)

// RequiredEnvVars lists all environment variables the core service must have set
var RequiredEnvVars = []string{
	"API_KEY",
}

// RequiredBotEnvVars lists the additional variables the Discord front-end needs
var RequiredBotEnvVars = []string{
	"DISCORD_TOKEN",
	"DISCORD_APP_ID",
}

// ValidateEnv checks that all required environment variables are set
func ValidateEnv() error {
	return validate(RequiredEnvVars)
}

// ValidateBotEnv checks the Discord front-end's required variables
func ValidateBotEnv() error {
	return validate(append(append([]string{}, RequiredEnvVars...), RequiredBotEnvVars...))
}

func validate(required []string) error {
	var missing []string
	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}
