package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/lewisjared/two-layer-model/internal/component"
	"github.com/lewisjared/two-layer-model/internal/timeseries"
)

// ErrDeserialization marks a malformed checkpoint document. The message
// names the offending field.
var ErrDeserialization = errors.New("deserialization failed")

// ComponentRegistry rebuilds components from their checkpointed kind and
// parameters.
type ComponentRegistry interface {
	New(kind string, parameters map[string]float64) (component.Component, error)
}

// floatValues is a float64 array that survives JSON: undefined (NaN)
// samples are encoded as null, everything else with enough digits to
// round-trip bit-identically.
type floatValues []float64

func (v floatValues) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(v)*8+2)
	buf = append(buf, '[')
	for i, x := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(x) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	buf = append(buf, ']')
	return buf, nil
}

func (v *floatValues) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(floatValues, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *p
		}
	}
	*v = out
	return nil
}

type checkpointAxis struct {
	Values floatValues `json:"values"`
}

type checkpointSeries struct {
	Name                  string      `json:"name"`
	VariableType          string      `json:"variable_type"`
	Units                 string      `json:"units"`
	InterpolationStrategy string      `json:"interpolation_strategy"`
	Values                floatValues `json:"values"`
}

type checkpointComponent struct {
	Kind       string             `json:"kind"`
	Parameters map[string]float64 `json:"parameters"`
}

type checkpoint struct {
	TimeAxis   checkpointAxis        `json:"time_axis"`
	Timeseries []checkpointSeries    `json:"timeseries"`
	Components []checkpointComponent `json:"components"`
	TimeIndex  int                   `json:"time_index"`
}

// ToJSON serializes the model's full state: the time axis, every series
// in the collection, the configuration of every component, and the
// cursor. The result is sufficient to reconstruct an equivalent model
// with FromJSON.
func (m *Model) ToJSON() ([]byte, error) {
	doc := checkpoint{
		TimeAxis:  checkpointAxis{Values: m.axis.Values()},
		TimeIndex: m.timeIndex,
	}

	for _, item := range m.collection.Items() {
		doc.Timeseries = append(doc.Timeseries, checkpointSeries{
			Name:                  item.Name,
			VariableType:          item.Type.String(),
			Units:                 item.Series.Units(),
			InterpolationStrategy: item.Series.Strategy().Name(),
			Values:                item.Series.Values(),
		})
	}

	for pos, c := range m.graph.components {
		ck, ok := c.(component.Checkpointer)
		if !ok {
			return nil, fmt.Errorf("component %s cannot be checkpointed", m.graph.names[pos])
		}
		params := ck.Parameters()
		if params == nil {
			params = map[string]float64{}
		}
		doc.Components = append(doc.Components, checkpointComponent{
			Kind:       ck.Kind(),
			Parameters: params,
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// validateCheckpoint probes the document before strict decoding so
// failures name the offending field.
func validateCheckpoint(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrDeserialization)
	}
	doc := gjson.ParseBytes(data)

	axisValues := doc.Get("time_axis.values")
	if !axisValues.Exists() {
		return fmt.Errorf("%w: missing field `time_axis.values`", ErrDeserialization)
	}
	if !axisValues.IsArray() {
		return fmt.Errorf("%w: `time_axis.values` must be an array", ErrDeserialization)
	}

	series := doc.Get("timeseries")
	if !series.Exists() || !series.IsArray() {
		return fmt.Errorf("%w: missing field `timeseries`", ErrDeserialization)
	}
	var fieldErr error
	series.ForEach(func(i, entry gjson.Result) bool {
		for _, field := range []string{"name", "variable_type", "units", "interpolation_strategy"} {
			if entry.Get(field).Type != gjson.String {
				fieldErr = fmt.Errorf("%w: `timeseries[%d].%s` must be a string",
					ErrDeserialization, int(i.Int()), field)
				return false
			}
		}
		if !entry.Get("values").IsArray() {
			fieldErr = fmt.Errorf("%w: `timeseries[%d].values` must be an array",
				ErrDeserialization, int(i.Int()))
			return false
		}
		return true
	})
	if fieldErr != nil {
		return fieldErr
	}

	comps := doc.Get("components")
	if !comps.Exists() || !comps.IsArray() {
		return fmt.Errorf("%w: missing field `components`", ErrDeserialization)
	}
	comps.ForEach(func(i, entry gjson.Result) bool {
		if entry.Get("kind").Type != gjson.String {
			fieldErr = fmt.Errorf("%w: `components[%d].kind` must be a string",
				ErrDeserialization, int(i.Int()))
			return false
		}
		if !entry.Get("parameters").IsObject() {
			fieldErr = fmt.Errorf("%w: `components[%d].parameters` must be a mapping",
				ErrDeserialization, int(i.Int()))
			return false
		}
		return true
	})
	if fieldErr != nil {
		return fieldErr
	}

	timeIndex := doc.Get("time_index")
	if !timeIndex.Exists() || timeIndex.Type != gjson.Number {
		return fmt.Errorf("%w: missing field `time_index`", ErrDeserialization)
	}
	return nil
}

// FromJSON reconstructs a model from a checkpoint produced by ToJSON.
// Components are rebuilt through the registry by kind; the dependency
// graph is resolved afresh from their definitions.
func FromJSON(data []byte, registry ComponentRegistry) (*Model, error) {
	if err := validateCheckpoint(data); err != nil {
		return nil, err
	}
	var doc checkpoint
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	axis, err := timeseries.TimeAxisFromValues(doc.TimeAxis.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: `time_axis.values`: %v", ErrDeserialization, err)
	}

	components := make([]component.Component, 0, len(doc.Components))
	for i, entry := range doc.Components {
		c, err := registry.New(entry.Kind, entry.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%w: `components[%d]`: %v", ErrDeserialization, i, err)
		}
		components = append(components, c)
	}

	exogenous := make(map[string]bool)
	for _, entry := range doc.Timeseries {
		typ, err := VariableTypeFromString(entry.VariableType)
		if err != nil {
			return nil, fmt.Errorf("%w: `timeseries[%s].variable_type`: %v", ErrDeserialization, entry.Name, err)
		}
		if typ == Exogenous {
			exogenous[entry.Name] = true
		}
	}

	resolved, err := resolveGraph(components, func(name string) bool { return exogenous[name] })
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	collection := NewTimeseriesCollection()
	for _, entry := range doc.Timeseries {
		strategy, err := timeseries.StrategyFromName(entry.InterpolationStrategy)
		if err != nil {
			return nil, fmt.Errorf("%w: `timeseries[%s].interpolation_strategy`: %v",
				ErrDeserialization, entry.Name, err)
		}
		series, err := timeseries.NewTimeseries(entry.Values, axis, entry.Units, strategy)
		if err != nil {
			return nil, fmt.Errorf("%w: `timeseries[%s].values`: %v", ErrDeserialization, entry.Name, err)
		}
		typ, _ := VariableTypeFromString(entry.VariableType)
		if err := collection.Add(entry.Name, series, typ); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
		}
	}

	// Every quantity the components read or write must have been
	// checkpointed, or the first step would fault.
	for pos, c := range resolved.components {
		names := append(component.InputNames(c), component.OutputNames(c)...)
		for _, name := range names {
			if _, ok := collection.Get(name); !ok {
				return nil, fmt.Errorf("%w: missing series %q required by %s",
					ErrDeserialization, name, resolved.names[pos])
			}
		}
	}

	if doc.TimeIndex < 0 || doc.TimeIndex >= axis.Len() {
		return nil, fmt.Errorf("%w: `time_index` %d out of range for a %d-point axis",
			ErrDeserialization, doc.TimeIndex, axis.Len())
	}

	return &Model{
		axis:       axis,
		collection: collection,
		graph:      resolved,
		timeIndex:  doc.TimeIndex,
	}, nil
}
