package config

import (
	"fmt"
	"os"
	"regexp"
)

// envPattern matches {{ env "KEY" }}, allowing the same whitespace
// flexibility a human editing YAML by hand would expect.
var envPattern = regexp.MustCompile(`\{\{\s*env\s+"([a-zA-Z0-9_.-]+)"\s*\}\}`)

// substituteEnv replaces every {{ env "KEY" }} occurrence in str with the
// named environment variable's value. An unset variable is an error: a
// config file that references one is expected to have it present.
func substituteEnv(str string) (string, error) {
	var lookupErr error
	result := envPattern.ReplaceAllStringFunc(str, func(match string) string {
		submatches := envPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			lookupErr = fmt.Errorf("invalid env pattern: %s", match)
			return match
		}
		key := submatches[1]
		value, ok := os.LookupEnv(key)
		if !ok {
			lookupErr = fmt.Errorf("environment variable %q is not set", key)
			return match
		}
		return value
	})
	if lookupErr != nil {
		return "", lookupErr
	}
	return result, nil
}

// substituteEnvInConfig applies substituteEnv to every string field that
// may legitimately reference an environment variable: the plugins
// directory and each dispatch policy expression.
func substituteEnvInConfig(c *RuntimeConfig) error {
	substituted, err := substituteEnv(c.PluginsDir)
	if err != nil {
		return fmt.Errorf("plugins_dir: %w", err)
	}
	c.PluginsDir = substituted

	for channel, policy := range c.DispatchPolicies {
		substituted, err := substituteEnv(policy)
		if err != nil {
			return fmt.Errorf("dispatch_policies[%s]: %w", channel, err)
		}
		c.DispatchPolicies[channel] = substituted
	}
	return nil
}
