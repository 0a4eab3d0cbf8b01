package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Model is the trained classifier.
type Model interface {
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

// Scaler is the feature transform fitted with the model.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// StandardScaler centers each feature on Mean and divides by Scale.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler: mean has %d values, scale has %d", len(s.Mean), len(s.Scale))
	}
	return nil
}

// MLP is a feed-forward classifier exported from a trained multilayer
// perceptron. Coefs[i] is the in×out weight matrix of layer i.
type MLP struct {
	Classes          []int         `json:"classes"`
	Activation       string        `json:"activation"`
	OutputActivation string        `json:"output_activation"`
	Coefs            [][][]float64 `json:"coefs"`
	Intercepts       [][]float64   `json:"intercepts"`
}

func (m *MLP) PredictProba(x []float64) ([]float64, error) {
	if len(x) != m.inputs() {
		return nil, fmt.Errorf("model expects %d features, got %d", m.inputs(), len(x))
	}

	act := x
	last := len(m.Coefs) - 1
	for layer := range m.Coefs {
		act = dense(act, m.Coefs[layer], m.Intercepts[layer])
		if layer < last {
			applyHidden(m.Activation, act)
		}
	}

	if m.OutputActivation == "softmax" {
		return softmax(act), nil
	}
	p := logistic(act[0])
	return []float64{1 - p, p}, nil
}

func (m *MLP) Predict(x []float64) (int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}
	return m.Classes[best], nil
}

func (m *MLP) inputs() int {
	if len(m.Coefs) == 0 {
		return 0
	}
	return len(m.Coefs[0])
}

func (m *MLP) validate() error {
	if len(m.Coefs) == 0 || len(m.Coefs) != len(m.Intercepts) {
		return fmt.Errorf("mlp: %d weight layers, %d bias layers", len(m.Coefs), len(m.Intercepts))
	}
	width := len(m.Coefs[0])
	for i, w := range m.Coefs {
		if len(w) != width {
			return fmt.Errorf("mlp: layer %d has %d inputs, want %d", i, len(w), width)
		}
		out := len(m.Intercepts[i])
		for _, row := range w {
			if len(row) != out {
				return fmt.Errorf("mlp: layer %d rows must have %d columns", i, out)
			}
		}
		width = out
	}

	switch m.OutputActivation {
	case "logistic":
		if width != 1 || len(m.Classes) != 2 {
			return errors.New("mlp: logistic output needs one unit and two classes")
		}
	case "softmax":
		if width != len(m.Classes) {
			return fmt.Errorf("mlp: softmax output has %d units for %d classes", width, len(m.Classes))
		}
	default:
		return fmt.Errorf("mlp: unknown output activation %q", m.OutputActivation)
	}

	switch m.Activation {
	case "relu", "tanh", "logistic", "identity":
	default:
		return fmt.Errorf("mlp: unknown activation %q", m.Activation)
	}
	return nil
}

func dense(in []float64, w [][]float64, b []float64) []float64 {
	out := append([]float64(nil), b...)
	for k, v := range in {
		for j, wkj := range w[k] {
			out[j] += v * wkj
		}
	}
	return out
}

func applyHidden(name string, v []float64) {
	for i, x := range v {
		switch name {
		case "relu":
			v[i] = math.Max(0, x)
		case "tanh":
			v[i] = math.Tanh(x)
		case "logistic":
			v[i] = logistic(x)
		}
	}
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(v []float64) []float64 {
	peak := v[0]
	for _, x := range v {
		peak = math.Max(peak, x)
	}
	out := make([]float64, len(v))
	sum := 0.0
	for i, x := range v {
		out[i] = math.Exp(x - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// DecodeArtifacts parses the JSON exports of the model and its scaler and
// checks that their dimensions agree.
func DecodeArtifacts(modelData, scalerData []byte) (Model, Scaler, error) {
	var mlp MLP
	if err := json.Unmarshal(modelData, &mlp); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}
	if err := mlp.validate(); err != nil {
		return nil, nil, err
	}

	var scaler StandardScaler
	if err := json.Unmarshal(scalerData, &scaler); err != nil {
		return nil, nil, fmt.Errorf("decode scaler: %w", err)
	}
	if err := scaler.validate(); err != nil {
		return nil, nil, err
	}

	if len(scaler.Mean) != mlp.inputs() {
		return nil, nil, fmt.Errorf("scaler has %d features, model expects %d", len(scaler.Mean), mlp.inputs())
	}
	return &mlp, &scaler, nil
}
