package detector

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/specialistvlad/detgeo/internal/builder"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/metrics"
	"github.com/specialistvlad/detgeo/internal/units"
)

// ParameterNames lists every key accepted by Apply, sorted.
func ParameterNames() []string {
	var flat map[string]any
	// Decoding a struct into a map only fails on unsupported field types.
	if err := mapstructure.Decode(builder.DefaultParams(), &flat); err != nil {
		panic(fmt.Sprintf("detector: cannot flatten parameters: %v", err))
	}
	names := make([]string, 0, len(flat))
	for k := range flat {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParamsMap returns p as a flat key/value map using Apply's keys.
func ParamsMap(p builder.Params) (map[string]any, error) {
	var flat map[string]any
	if err := mapstructure.Decode(p, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

// quantityHook lets numeric parameters be given as unit expressions such as
// "25*m" or "10*cm".
func quantityHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
		return data, nil
	}
	return units.ParseQuantity(data.(string))
}

// Apply stages a set of parameter overrides. Values may be numbers, numeric
// strings or unit expressions. Unknown keys reject the whole set. The
// change takes effect on the next Construct.
func (m *Model) Apply(ctx context.Context, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	err := m.applyLocked(ctx, overrides)
	m.metrics.ObserveMutation("apply", err)
	if err != nil {
		return err
	}
	m.notify(ctx, metrics.ReinitializeGeometry)
	return nil
}

func (m *Model) applyLocked(ctx context.Context, overrides map[string]any) error {
	known := ParameterNames()
	var unknown []string
	for k := range overrides {
		if _, found := slices.BinarySearch(known, k); !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %v", ErrUnknownParameter, unknown)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.params
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       quantityHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &next,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(overrides); err != nil {
		return fmt.Errorf("invalid parameter value: %w", err)
	}

	m.params = next
	m.pending = true
	ctxlog.FromContext(ctx).Info("Parameters staged.", "count", len(overrides))
	return nil
}
