// Package directory supplies sales-person display names for record
// creation. It is a read-only collaborator; the commission engine never
// consults it during calculation.
package directory

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Salesperson is one employee directory entry.
type Salesperson struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Active bool   `yaml:"active" json:"active"`
}

// Provider lists sales staff.
type Provider interface {
	ListSalespeople(ctx context.Context) ([]Salesperson, error)
}

// StaticProvider serves a fixed directory snapshot.
type StaticProvider struct {
	people []Salesperson
}

// NewStaticProvider constructs a provider.
func NewStaticProvider(people []Salesperson) *StaticProvider {
	snapshot := make([]Salesperson, len(people))
	copy(snapshot, people)
	return &StaticProvider{people: snapshot}
}

// ListSalespeople returns the directory snapshot.
func (p *StaticProvider) ListSalespeople(ctx context.Context) ([]Salesperson, error) {
	_ = ctx
	out := make([]Salesperson, len(p.people))
	copy(out, p.people)
	return out, nil
}

type fileDocument struct {
	Salespeople []Salesperson `yaml:"salespeople"`
}

// LoadFile reads directory entries from a yaml file.
func LoadFile(path string) ([]Salesperson, error) {
	if path == "" {
		return nil, errors.New("directory: empty file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Salespeople, nil
}
