package appconf

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// ParseEnvironment accepts the environment names and their short forms.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return Development, nil
	case "test":
		return Test, nil
	case "production", "prod":
		return Production, nil
	default:
		return Development, fmt.Errorf("unknown environment %q", s)
	}
}

// EnvFlagToEnvironment maps a flag value to an Environment, defaulting to
// Development for unknown values.
func EnvFlagToEnvironment(env string) Environment {
	e, _ := ParseEnvironment(env)
	return e
}

func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEnvironment(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Environment) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}
