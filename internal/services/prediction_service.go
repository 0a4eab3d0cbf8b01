package services

import (
	"context"
	"errors"

	"seizure-care-server/internal/prediction"
	"seizure-care-server/internal/validation"
)

// PredictRequest is the body of a prediction call.
type PredictRequest struct {
	Features any `json:"features"`
}

// Predictor classifies a feature vector.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (prediction.Result, error)
}

// ModelManager exposes the lifecycle of the loaded model pair.
type ModelManager interface {
	Status() prediction.Status
	Reload(ctx context.Context) (*prediction.Pair, error)
}

// PredictionService validates prediction input and delegates to the model.
type PredictionService struct {
	predictor Predictor
	models    ModelManager
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(predictor Predictor, models ModelManager) *PredictionService {
	return &PredictionService{predictor: predictor, models: models}
}

// Predict checks the shape and values of req.Features before the model is
// consulted.
func (s *PredictionService) Predict(ctx context.Context, req PredictRequest) (prediction.Result, error) {
	if req.Features == nil {
		return prediction.Result{}, invalid(CodeInvalidInput, "Please provide 'features' array with %d EEG values", validation.FeatureCount)
	}
	features, err := validation.ParseFeatureVector(req.Features)
	switch {
	case errors.Is(err, validation.ErrFeatureShape):
		return prediction.Result{}, invalid(CodeInvalidFeatures, "Features must be an array of exactly %d float values", validation.FeatureCount)
	case err != nil:
		return prediction.Result{}, invalid(CodeInvalidDataFormat, "Features must contain valid numeric values")
	}

	res, err := s.predictor.Predict(ctx, features)
	if err != nil {
		return prediction.Result{}, classify(err, "model", "")
	}
	return res, nil
}

// ModelStatus reports whether the model pair is loaded.
func (s *PredictionService) ModelStatus() prediction.Status {
	return s.models.Status()
}

// ReloadModel forces the model pair to be read again.
func (s *PredictionService) ReloadModel(ctx context.Context) (prediction.Status, error) {
	if _, err := s.models.Reload(ctx); err != nil {
		return s.models.Status(), &Error{
			Kind:    KindUnavailable,
			Code:    CodeModelUnavailable,
			Message: "ML model files could not be loaded",
			Err:     err,
		}
	}
	return s.models.Status(), nil
}
