package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"salon/shared/constant"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var routesData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleStaff, constant.RoleClient}

// Rule is the access policy of one route pattern. Public routes need no token; otherwise
// the caller's role must be listed.
type Rule struct {
	Method string   `json:"method"`
	Path   string   `json:"path"`
	Public bool     `json:"public"`
	Roles  []string `json:"roles"`
}

func (r Rule) Allows(role string) bool {
	return slices.Contains(r.Roles, role)
}

// Table resolves rules by method and chi route pattern.
type Table struct {
	rules map[string]Rule
}

func key(method, pattern string) string {
	return method + " " + pattern
}

// Load parses a route table and rejects duplicate routes, unknown roles and private routes
// nobody may call.
func Load(data []byte) (*Table, error) {
	var doc struct {
		Routes []Rule `json:"routes"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode route permissions: %w", err)
	}

	table := &Table{rules: make(map[string]Rule, len(doc.Routes))}

	for _, rule := range doc.Routes {
		k := key(rule.Method, rule.Path)
		if _, dup := table.rules[k]; dup {
			return nil, fmt.Errorf("duplicate route permission %q", k)
		}

		if !rule.Public && len(rule.Roles) == 0 {
			return nil, fmt.Errorf("route %q is neither public nor open to any role", k)
		}

		for _, role := range rule.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("route %q names unknown role %q", k, role)
			}
		}

		table.rules[k] = rule
	}

	return table, nil
}

// Lookup reports the rule for a route pattern. Routes without a rule are closed.
func (t *Table) Lookup(method, pattern string) (Rule, bool) {
	rule, ok := t.rules[key(method, pattern)]

	return rule, ok
}

// Get loads the embedded route table. A broken table stops the process.
func Get() *Table {
	table, err := Load(routesData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded route permissions")
	}

	log.Info().Int("routes", len(table.rules)).Msg("Loaded embedded route permissions")

	return table
}
