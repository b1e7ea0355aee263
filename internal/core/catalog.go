package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Presentation fallbacks for names missing from the catalog.
const (
	DefaultIcon     = "Tv"
	DefaultColor    = "bg-gray-500"
	DefaultCategory = "Streaming"
)

// Icons is the fixed icon-name set a subscription may reference.
var Icons = []string{"Tv", "Music", "ShoppingBag", "Star"}

type (
	// PredefinedService pre-fills the add form and selects presentation hints.
	PredefinedService struct {
		Name     string `yaml:"name" json:"name"`
		Price    Money  `yaml:"-" json:"price"`
		RawPrice string `yaml:"price" json:"-"`
		Category string `yaml:"category" json:"category"`
		Icon     string `yaml:"icon" json:"icon"`
		Color    string `yaml:"color" json:"color"`
	}

	Tip struct {
		Title       string `yaml:"title" json:"title"`
		Description string `yaml:"description" json:"description"`
		Savings     string `yaml:"savings" json:"savings"`
	}

	// Catalog is the immutable reference data handed to the ledger and the UI.
	Catalog struct {
		Services []PredefinedService `yaml:"services" json:"services"`
		Tips     []Tip               `yaml:"tips" json:"tips"`
	}
)

var defaultCatalog = Catalog{
	Services: []PredefinedService{
		{Name: "Netflix", Price: Money{Cents: 4590}, Category: "Streaming", Icon: "Tv", Color: "bg-red-500"},
		{Name: "Spotify", Price: Money{Cents: 2190}, Category: "Música", Icon: "Music", Color: "bg-green-500"},
		{Name: "Amazon Prime", Price: Money{Cents: 1490}, Category: "Streaming", Icon: "ShoppingBag", Color: "bg-blue-500"},
		{Name: "Disney+", Price: Money{Cents: 3390}, Category: "Streaming", Icon: "Star", Color: "bg-purple-500"},
		{Name: "YouTube Premium", Price: Money{Cents: 2490}, Category: "Streaming", Icon: "Tv", Color: "bg-red-600"},
		{Name: "Apple Music", Price: Money{Cents: 2190}, Category: "Música", Icon: "Music", Color: "bg-gray-800"},
	},
	Tips: []Tip{
		{
			Title:       "Compartilhe contas familiares",
			Description: "Divida o custo de planos familiares com amigos ou família",
			Savings:     "Até 70% de economia",
		},
		{
			Title:       "Cancele serviços não utilizados",
			Description: "Revise mensalmente quais serviços você realmente usa",
			Savings:     "€ 50-200/mês",
		},
		{
			Title:       "Aproveite promoções anuais",
			Description: "Muitos serviços oferecem desconto para pagamento anual",
			Savings:     "10-20% de desconto",
		},
		{
			Title:       "Alterne entre serviços",
			Description: "Assine apenas um serviço por vez, alternando conforme o conteúdo",
			Savings:     "Até 60% de economia",
		},
	},
}

// DefaultCatalog returns a copy of the built-in services and tips.
func DefaultCatalog() Catalog {
	return Catalog{
		Services: append([]PredefinedService(nil), defaultCatalog.Services...),
		Tips:     append([]Tip(nil), defaultCatalog.Tips...),
	}
}

// LoadCatalog reads a YAML catalog file. An empty path yields the default catalog;
// a file that omits tips keeps the default tips.
func LoadCatalog(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i := range c.Services {
		cents, err := ParseDecimalToCents(c.Services[i].RawPrice)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog service %q: price %q: %w", c.Services[i].Name, c.Services[i].RawPrice, err)
		}
		c.Services[i].Price = Money{Cents: cents}
	}
	if len(c.Tips) == 0 {
		c.Tips = DefaultCatalog().Tips
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks service names are unique and icons come from the fixed set.
func (c Catalog) Validate() error {
	var problems []string
	seen := make(map[string]struct{}, len(c.Services))
	for _, s := range c.Services {
		if strings.TrimSpace(s.Name) == "" {
			problems = append(problems, "service with empty name")
			continue
		}
		if _, dup := seen[s.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate service %q", s.Name))
		}
		seen[s.Name] = struct{}{}
		if s.Price.Validate() != nil {
			problems = append(problems, fmt.Sprintf("service %q has negative price", s.Name))
		}
		if !validIcon(s.Icon) {
			problems = append(problems, fmt.Sprintf("service %q has unknown icon %q", s.Name, s.Icon))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Lookup finds a predefined service by exact name.
func (c Catalog) Lookup(name string) (PredefinedService, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return PredefinedService{}, false
}

// Presentation returns the icon and color for name, falling back to the defaults.
func (c Catalog) Presentation(name string) (icon, color string) {
	if s, ok := c.Lookup(name); ok {
		return s.Icon, s.Color
	}
	return DefaultIcon, DefaultColor
}

func validIcon(icon string) bool {
	for _, i := range Icons {
		if i == icon {
			return true
		}
	}
	return false
}
