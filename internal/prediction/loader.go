package prediction

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Pair is a loaded model with its scaler. It is read-only once published.
type Pair struct {
	Model    Model
	Scaler   Scaler
	LoadedAt time.Time
}

// DecodeFunc turns raw artifacts into a model and scaler.
type DecodeFunc func(modelData, scalerData []byte) (Model, Scaler, error)

// Loader loads the model pair on first use and reuses it afterwards. A failed
// load is retried on the next call.
type Loader struct {
	source     ArtifactSource
	modelName  string
	scalerName string
	decode     DecodeFunc
	now        func() time.Time

	mu      sync.Mutex // serializes loads
	pair    atomic.Pointer[Pair]
	lastErr atomic.Pointer[loadError]
}

type loadError struct{ err error }

// NewLoader returns a loader reading modelName and scalerName from source.
// A nil decode uses DecodeArtifacts.
func NewLoader(source ArtifactSource, modelName, scalerName string, decode DecodeFunc) *Loader {
	if decode == nil {
		decode = DecodeArtifacts
	}
	return &Loader{
		source:     source,
		modelName:  modelName,
		scalerName: scalerName,
		decode:     decode,
		now:        time.Now,
	}
}

// Get returns the loaded pair, loading it if needed.
func (l *Loader) Get(ctx context.Context) (*Pair, error) {
	if p := l.pair.Load(); p != nil {
		return p, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if p := l.pair.Load(); p != nil {
		return p, nil
	}
	return l.loadLocked(ctx)
}

// Reload reads the artifacts again. The current pair stays in use if the
// reload fails.
func (l *Loader) Reload(ctx context.Context) (*Pair, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(ctx)
}

func (l *Loader) loadLocked(ctx context.Context) (*Pair, error) {
	p, err := l.read(ctx)
	if err != nil {
		l.lastErr.Store(&loadError{err: err})
		return nil, err
	}
	l.pair.Store(p)
	l.lastErr.Store(nil)
	return p, nil
}

func (l *Loader) read(ctx context.Context) (*Pair, error) {
	modelData, err := l.source.Fetch(ctx, l.modelName)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	scalerData, err := l.source.Fetch(ctx, l.scalerName)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	model, scaler, err := l.decode(modelData, scalerData)
	if err != nil {
		return nil, err
	}
	return &Pair{Model: model, Scaler: scaler, LoadedAt: l.now()}, nil
}

// Status describes the loader for diagnostics.
type Status struct {
	Loaded     bool       `json:"loaded"`
	Source     string     `json:"source"`
	ModelFile  string     `json:"model_file"`
	ScalerFile string     `json:"scaler_file"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Status reports the current state without triggering a load.
func (l *Loader) Status() Status {
	st := Status{
		Source:     l.source.Location(),
		ModelFile:  l.modelName,
		ScalerFile: l.scalerName,
	}
	if p := l.pair.Load(); p != nil {
		st.Loaded = true
		at := p.LoadedAt
		st.LoadedAt = &at
	}
	if le := l.lastErr.Load(); le != nil {
		st.Error = le.err.Error()
	}
	return st
}
