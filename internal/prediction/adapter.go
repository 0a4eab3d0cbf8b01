// Package prediction wraps the externally trained seizure classifier. The
// model and scaler are opaque: the adapter validates input, scales it, asks
// the model for a label and class probabilities, and maps the label onto a
// status and a message.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"seizure-care-server/internal/validation"
)

// ErrModelUnavailable is returned while the model pair cannot be loaded.
var ErrModelUnavailable = errors.New("model unavailable")

// Picker chooses an index in [0, n). It only affects message wording.
type Picker interface {
	IntN(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) IntN(n int) int { return f(n) }

// globalPicker uses the goroutine-safe top-level math/rand source.
var globalPicker = PickerFunc(rand.Intn)

// Result is the outcome of one prediction.
type Result struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	Prediction int     `json:"prediction"`
}

// PairProvider hands out the loaded model pair. *Loader implements it.
type PairProvider interface {
	Get(ctx context.Context) (*Pair, error)
}

// Adapter runs predictions against the pair supplied by its provider.
type Adapter struct {
	pairs  PairProvider
	picker Picker
}

// NewAdapter returns an adapter. A nil picker uses math/rand.
func NewAdapter(pairs PairProvider, picker Picker) *Adapter {
	if picker == nil {
		picker = globalPicker
	}
	return &Adapter{pairs: pairs, picker: picker}
}

// Predict classifies one feature vector. A vector of the wrong length is
// rejected with validation.ErrFeatureShape before the model is touched.
func (a *Adapter) Predict(ctx context.Context, features []float64) (Result, error) {
	if len(features) != validation.FeatureCount {
		return Result{}, validation.ErrFeatureShape
	}

	pair, err := a.pairs.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	scaled, err := pair.Scaler.Transform(features)
	if err != nil {
		return Result{}, fmt.Errorf("scale features: %w", err)
	}
	label, err := pair.Model.Predict(scaled)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	proba, err := pair.Model.PredictProba(scaled)
	if err != nil {
		return Result{}, fmt.Errorf("predict proba: %w", err)
	}

	res := Result{Confidence: maxOf(proba), Prediction: label}
	if label == 1 {
		res.Status = StatusHighRisk
		res.Message = SeizureRiskMessages[a.picker.IntN(len(SeizureRiskMessages))]
	} else {
		res.Status = StatusNormal
		res.Message = NormalEEGMessages[a.picker.IntN(len(NormalEEGMessages))]
	}
	return res, nil
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
