package notification

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AudienceAll is the audience sentinel matching every role.
const AudienceAll = "all"

//go:embed catalog.yaml
var catalogYAML []byte

// Audience is either every role or an explicit role set.
type Audience struct {
	All   bool
	Roles []string
}

func (a Audience) Includes(role string) bool {
	if a.All {
		return true
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Audience) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != AudienceAll {
			return fmt.Errorf("line %d: audience must be %q or a list of roles, got %q", value.Line, AudienceAll, value.Value)
		}
		*a = Audience{All: true}
		return nil
	case yaml.SequenceNode:
		var roles []string
		if err := value.Decode(&roles); err != nil {
			return err
		}
		*a = Audience{Roles: roles}
		return nil
	default:
		return fmt.Errorf("line %d: invalid audience", value.Line)
	}
}

// MarshalJSON renders the audience as "all" or the role list.
func (a Audience) MarshalJSON() ([]byte, error) {
	if a.All {
		return []byte(`"` + AudienceAll + `"`), nil
	}
	if a.Roles == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Roles)
}

type Alert struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Body        string    `yaml:"body" json:"body"`
	Severity    string    `yaml:"severity" json:"severity"`
	Audience    Audience  `yaml:"audience" json:"audience"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	ActionLabel string    `yaml:"action_label,omitempty" json:"action_label,omitempty"`
}

// Feed filters a static alert catalog by viewer role.
type Feed struct {
	alerts []Alert
}

// ParseCatalog decodes and checks a YAML alert catalog.
func ParseCatalog(data []byte) ([]Alert, error) {
	var alerts []Alert
	if err := yaml.Unmarshal(data, &alerts); err != nil {
		return nil, errors.Wrap(err, "decoding alert catalog")
	}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityInfo, SeverityWarning, SeverityCritical:
		default:
			return nil, fmt.Errorf("alert %s: invalid severity %q", a.ID, a.Severity)
		}
	}
	return alerts, nil
}

func NewFeed(alerts []Alert) *Feed {
	return &Feed{alerts: alerts}
}

// NewDefaultFeed serves the built-in catalog.
func NewDefaultFeed() *Feed {
	alerts, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return NewFeed(alerts)
}

// Fetch returns the alerts addressed to role, in catalog order. An empty role gets nothing.
func (f *Feed) Fetch(role string) []Alert {
	out := make([]Alert, 0, len(f.alerts))
	if role == "" {
		return out
	}
	for _, a := range f.alerts {
		if a.Audience.Includes(role) {
			out = append(out, a)
		}
	}
	return out
}
