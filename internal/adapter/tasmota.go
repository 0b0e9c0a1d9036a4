package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color temperature limits accepted by Tasmota's CT command, in mireds.
const (
	ctMin = 153
	ctMax = 500
)

// HSB channels within the composite HSBColor value.
const (
	channelHue = iota
	channelSaturation
	channelBrightness
)

// defaultHSB is assumed for a group before any HSBColor report arrives.
var defaultHSB = [3]float64{0, 0, 100}

func tasmotaDescriptors() []Descriptor {
	return []Descriptor{
		{Name: "tasmota.POWER", Input: powerInput, Output: powerOutput},
		{Name: "tasmota.HOLD", Input: holdInput, Output: holdOutput},
		{Name: "tasmota.HSBColor", Input: hsbInput(channelHue), Output: hsbOutput(channelHue)},
		{Name: "tasmota.Hue", Input: hsbInput(channelHue), Output: hsbOutput(channelHue)},
		{Name: "tasmota.Saturation", Input: hsbInput(channelSaturation), Output: hsbOutput(channelSaturation)},
		{Name: "tasmota.Brightness", Input: hsbInput(channelBrightness), Output: hsbOutput(channelBrightness)},
		{Name: "tasmota.Dimmer", Input: jsonFieldInput("Dimmer"), Output: dimmerOutput},
		{Name: "tasmota.ColorTemperature", Input: jsonFieldInput("CT"), Output: colorTemperatureOutput},
	}
}

// powerInput accepts a bare "ON"/"OFF" or a JSON result carrying POWER.
func powerInput(_ *GroupCache, _, payload string) (any, bool, error) {
	if payload == "" {
		return nil, false, fmt.Errorf("%w: empty POWER payload", ErrMalformedPayload)
	}
	if payload[0] != '{' {
		return payload == "ON", true, nil
	}

	v, ok, err := jsonField(payload, "POWER")
	if err != nil || !ok {
		return nil, false, err
	}
	return v == "ON", true, nil
}

func powerOutput(_ *GroupCache, _ string, value any) (any, bool, error) {
	if truthy(value) {
		return "ON", true, nil
	}
	return "OFF", true, nil
}

// holdInput turns the momentary HOLD report into a single-press event.
func holdInput(_ *GroupCache, _, payload string) (any, bool, error) {
	if payload == "HOLD" {
		return int64(1), true, nil
	}
	return nil, false, nil
}

func holdOutput(*GroupCache, string, any) (any, bool, error) {
	return nil, false, nil
}

// hsbInput parses {"HSBColor":"h,s,b"}, caches the composite for the
// topic's group, and returns one channel.
func hsbInput(channel int) InputFunc {
	return func(cache *GroupCache, topic, payload string) (any, bool, error) {
		v, ok, err := jsonField(payload, "HSBColor")
		if err != nil || !ok {
			return nil, false, err
		}

		s, isString := v.(string)
		if !isString {
			return nil, false, fmt.Errorf("%w: HSBColor is %T, want string", ErrMalformedPayload, v)
		}
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return nil, false, fmt.Errorf("%w: HSBColor %q needs 3 channels", ErrMalformedPayload, s)
		}

		var hsb [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, false, fmt.Errorf("%w: HSBColor channel %q", ErrMalformedPayload, p)
			}
			hsb[i] = f
		}

		cache.Update(GroupKey(topic), func(any, bool) any { return hsb })
		return int64(hsb[channel]), true, nil
	}
}

// hsbOutput overwrites one channel of the cached composite and encodes the
// whole composite as "h,s,b".
func hsbOutput(channel int) OutputFunc {
	return func(cache *GroupCache, topic string, value any) (any, bool, error) {
		f, err := toFloat(value)
		if err != nil {
			return nil, false, err
		}

		stored := cache.Update(GroupKey(topic), func(current any, ok bool) any {
			hsb := defaultHSB
			if cached, isHSB := current.([3]float64); ok && isHSB {
				hsb = cached
			}
			hsb[channel] = f
			return hsb
		})

		hsb := stored.([3]float64)
		return fmt.Sprintf("%d,%d,%d", int64(hsb[0]), int64(hsb[1]), int64(hsb[2])), true, nil
	}
}

func jsonFieldInput(key string) InputFunc {
	return func(_ *GroupCache, _, payload string) (any, bool, error) {
		return jsonField(payload, key)
	}
}

func dimmerOutput(_ *GroupCache, _ string, value any) (any, bool, error) {
	f, err := toFloat(value)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

func colorTemperatureOutput(_ *GroupCache, _ string, value any) (any, bool, error) {
	f, err := toFloat(value)
	if err != nil {
		return nil, false, err
	}
	ct := int64(f)
	ct = max(ctMin, min(ctMax, ct))
	return ct, true, nil
}

// jsonField decodes a JSON object payload and returns one top-level field.
// A missing or null field is absent.
func jsonField(payload, key string) (any, bool, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	v, ok := result[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedPayload, x)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedPayload, x)
		}
		return f, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: cannot use %T as a number", ErrMalformedPayload, v)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int64:
		return x != 0
	case int:
		return x != 0
	default:
		return true
	}
}
