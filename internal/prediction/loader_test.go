package prediction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	mu      sync.Mutex
	objects map[string][]byte
	fetches atomic.Int32
}

func (s *memorySource) Fetch(_ context.Context, name string) ([]byte, error) {
	s.fetches.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, name)
	}
	return data, nil
}

func (s *memorySource) Location() string { return "memory" }

func (s *memorySource) put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
}

func stubDecode(modelData, scalerData []byte) (Model, Scaler, error) {
	if string(modelData) == "broken" {
		return nil, nil, errors.New("broken model")
	}
	return &stubModel{label: 0, proba: []float64{1, 0}}, identityScaler{}, nil
}

func TestLoader_MissingFilesThenRetry(t *testing.T) {
	src := &memorySource{objects: map[string][]byte{"model.json": []byte("m")}}
	l := NewLoader(src, "model.json", "scaler.json", stubDecode)

	_, err := l.Get(context.Background())
	assert.ErrorIs(t, err, ErrArtifactMissing)
	st := l.Status()
	assert.False(t, st.Loaded)
	assert.Contains(t, st.Error, "scaler")

	src.put("scaler.json", []byte("s"))
	p, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p.Model)

	st = l.Status()
	assert.True(t, st.Loaded)
	assert.Empty(t, st.Error)
	assert.NotNil(t, st.LoadedAt)
	assert.Equal(t, "memory", st.Source)
}

func TestLoader_ConcurrentFirstLoadReadsOnce(t *testing.T) {
	src := &memorySource{objects: map[string][]byte{"m": []byte("m"), "s": []byte("s")}}
	l := NewLoader(src, "m", "s", stubDecode)

	var wg sync.WaitGroup
	pairs := make([]*Pair, 32)
	for i := range pairs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := l.Get(context.Background())
			assert.NoError(t, err)
			pairs[i] = p
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(2), src.fetches.Load())
	for _, p := range pairs {
		assert.Same(t, pairs[0], p)
	}
}

func TestLoader_ReloadKeepsPairOnFailure(t *testing.T) {
	src := &memorySource{objects: map[string][]byte{"m": []byte("m"), "s": []byte("s")}}
	l := NewLoader(src, "m", "s", stubDecode)

	first, err := l.Get(context.Background())
	require.NoError(t, err)

	src.put("m", []byte("broken"))
	_, err = l.Reload(context.Background())
	assert.Error(t, err)

	current, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.Equal(t, "broken model", l.Status().Error)

	src.put("m", []byte("fixed"))
	second, err := l.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
