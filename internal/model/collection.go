// Package model assembles components and exogenous data into a
// validated dependency graph and drives it across a shared time axis.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

var ErrAlreadyExists = errors.New("timeseries already exists")

// VariableType classifies how a quantity enters the model.
type VariableType int

const (
	// Exogenous values are defined outside of the model.
	Exogenous VariableType = iota
	// Endogenous values are determined within the model.
	Endogenous
)

func (v VariableType) String() string {
	if v == Endogenous {
		return "endogenous"
	}
	return "exogenous"
}

// VariableTypeFromString is the inverse of String.
func VariableTypeFromString(s string) (VariableType, error) {
	switch s {
	case "exogenous":
		return Exogenous, nil
	case "endogenous":
		return Endogenous, nil
	default:
		return 0, fmt.Errorf("unknown variable type %q", s)
	}
}

// Item is a named, typed entry in a TimeseriesCollection.
type Item struct {
	Name   string
	Type   VariableType
	Series *timeseries.Timeseries
}

// TimeseriesCollection is the model's shared state store: a registry of
// timeseries by name, preserving insertion order for diagnostics.
type TimeseriesCollection struct {
	items []*Item
	index map[string]int
}

func NewTimeseriesCollection() *TimeseriesCollection {
	return &TimeseriesCollection{index: make(map[string]int)}
}

// Add registers a series under a unique name.
func (c *TimeseriesCollection) Add(name string, series *timeseries.Timeseries, typ VariableType) error {
	if _, ok := c.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	c.index[name] = len(c.items)
	c.items = append(c.items, &Item{Name: name, Type: typ, Series: series})
	return nil
}

func (c *TimeseriesCollection) Get(name string) (*Item, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

func (c *TimeseriesCollection) GetTimeseries(name string) (*timeseries.Timeseries, bool) {
	item, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return item.Series, true
}

// Items returns the entries in insertion order.
func (c *TimeseriesCollection) Items() []*Item {
	items := make([]*Item, len(c.items))
	copy(items, c.items)
	return items
}

// Names returns the entry names in insertion order.
func (c *TimeseriesCollection) Names() []string {
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.Name
	}
	return names
}

func (c *TimeseriesCollection) Len() int { return len(c.items) }

func (c *TimeseriesCollection) String() string {
	var b strings.Builder
	b.WriteString("<TimeseriesCollection names=[")
	for i, item := range c.items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", item.Name)
	}
	b.WriteString("]>")
	return b.String()
}
