package theme

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xonecas/echochat/internal/constants"
)

// fakeKV is an in-memory KV with injectable failures.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	getHook func()
	writes  []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.getHook != nil {
		f.getHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.writes = append(f.writes, value)
	return nil
}

func (f *fakeKV) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// fakePlatform is a controllable PlatformSource.
type fakePlatform struct {
	mu        sync.Mutex
	mode      Mode
	callbacks map[int]func(Mode)
	nextID    int
}

func newFakePlatform(m Mode) *fakePlatform {
	return &fakePlatform{mode: m, callbacks: map[int]func(Mode){}}
}

func (p *fakePlatform) Current() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *fakePlatform) OnChange(cb func(Mode)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.callbacks[id] = cb
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.callbacks, id)
	}
}

func (p *fakePlatform) set(m Mode) {
	p.mu.Lock()
	p.mode = m
	cbs := make([]func(Mode), 0, len(p.callbacks))
	for _, cb := range p.callbacks {
		cbs = append(cbs, cb)
	}
	p.mu.Unlock()
	for _, cb := range cbs {
		cb(m)
	}
}

func (p *fakePlatform) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.callbacks)
}

func waitReady(t *testing.T, s *Store) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("store did not become ready")
	}
}

func TestStore_InitializeWithoutStoredKey(t *testing.T) {
	kv := newFakeKV()
	platform := newFakePlatform(ModeDark)
	s := NewStore(kv, platform)
	defer func() { _ = s.Close() }()

	s.Initialize(context.Background())
	waitReady(t, s)

	assert.Equal(t, PreferenceSystem, s.Preference())
	assert.Equal(t, ModeDark, s.Effective())

	require.NoError(t, s.SetTheme(PreferenceLight))
	assert.Equal(t, PreferenceLight, s.Preference())
	assert.Equal(t, ModeLight, s.Effective())

	require.NoError(t, s.Close())
	v, ok := kv.value(constants.ThemePreferenceKey)
	require.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestStore_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	platform := newFakePlatform(ModeLight)

	first := NewStore(kv, platform)
	require.NoError(t, first.SetTheme(PreferenceDark))
	require.NoError(t, first.Close())

	second := NewStore(kv, platform)
	defer func() { _ = second.Close() }()
	second.Initialize(context.Background())
	waitReady(t, second)

	assert.Equal(t, PreferenceDark, second.Preference())
	assert.Equal(t, ModeDark, second.Effective())
}

func TestStore_ReadFailureKeepsDefault(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("storage unavailable")
	s := NewStore(kv, newFakePlatform(ModeDark))
	defer func() { _ = s.Close() }()

	s.Initialize(context.Background())
	waitReady(t, s)

	assert.Equal(t, PreferenceSystem, s.Preference())
	assert.Equal(t, ModeDark, s.Effective())
}

func TestStore_CorruptValueKeepsDefault(t *testing.T) {
	kv := newFakeKV()
	kv.data[constants.ThemePreferenceKey] = "purple"
	s := NewStore(kv, newFakePlatform(ModeLight))
	defer func() { _ = s.Close() }()

	s.Initialize(context.Background())
	waitReady(t, s)

	assert.Equal(t, PreferenceSystem, s.Preference())
	assert.Equal(t, ModeLight, s.Effective())
}

func TestStore_WriteFailureDoesNotRollBack(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("disk full")
	s := NewStore(kv, newFakePlatform(ModeLight))

	require.NoError(t, s.SetTheme(PreferenceDark))
	require.NoError(t, s.Close())

	assert.Equal(t, PreferenceDark, s.Preference())
	assert.Equal(t, ModeDark, s.Effective())
	_, ok := kv.value(constants.ThemePreferenceKey)
	assert.False(t, ok)
}

func TestStore_SetThemeIdempotent(t *testing.T) {
	s := NewStore(newFakeKV(), newFakePlatform(ModeLight))
	defer func() { _ = s.Close() }()

	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })
	defer unsubscribe()

	require.NoError(t, s.SetTheme(PreferenceDark))
	once := s.Effective()
	require.NoError(t, s.SetTheme(PreferenceDark))

	assert.Equal(t, once, s.Effective())
	assert.Equal(t, 1, calls, "second identical call changes nothing")
}

func TestStore_RejectsInvalidPreference(t *testing.T) {
	s := NewStore(newFakeKV(), newFakePlatform(ModeLight))
	defer func() { _ = s.Close() }()

	err := s.SetTheme(Preference("sepia"))
	assert.True(t, errors.Is(err, ErrInvalidPreference))
	assert.Equal(t, PreferenceSystem, s.Preference())
}

func TestStore_PlatformChangePropagates(t *testing.T) {
	platform := newFakePlatform(ModeLight)
	s := NewStore(newFakeKV(), platform)
	defer func() { _ = s.Close() }()

	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })
	defer unsubscribe()

	platform.set(ModeDark)

	assert.Equal(t, PreferenceSystem, s.Preference())
	assert.Equal(t, ModeDark, s.Effective())
	require.Len(t, got, 1)
	assert.Equal(t, State{Preference: PreferenceSystem, Effective: ModeDark, Platform: ModeDark}, got[0])
}

func TestStore_ExplicitPreferenceIgnoresPlatform(t *testing.T) {
	platform := newFakePlatform(ModeLight)
	s := NewStore(newFakeKV(), platform)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.SetTheme(PreferenceLight))
	platform.set(ModeDark)

	assert.Equal(t, ModeLight, s.Effective())
	assert.Equal(t, ModeDark, s.State().Platform)

	require.NoError(t, s.SetTheme(PreferenceSystem))
	assert.Equal(t, ModeDark, s.Effective())
}

func TestStore_SetThemeBeforeLoadWins(t *testing.T) {
	kv := newFakeKV()
	kv.data[constants.ThemePreferenceKey] = "dark"

	release := make(chan struct{})
	kv.getHook = func() { <-release }

	s := NewStore(kv, newFakePlatform(ModeLight))
	defer func() { _ = s.Close() }()

	s.Initialize(context.Background())
	require.NoError(t, s.SetTheme(PreferenceLight))
	close(release)
	waitReady(t, s)

	assert.Equal(t, PreferenceLight, s.Preference())
}

func TestStore_LastWriteWins(t *testing.T) {
	kv := newFakeKV()
	s := NewStore(kv, newFakePlatform(ModeLight))

	for _, p := range []Preference{PreferenceDark, PreferenceLight, PreferenceSystem, PreferenceDark} {
		require.NoError(t, s.SetTheme(p))
	}
	require.NoError(t, s.Close())

	v, ok := kv.value(constants.ThemePreferenceKey)
	require.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	s := NewStore(newFakeKV(), newFakePlatform(ModeLight))
	defer func() { _ = s.Close() }()

	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })

	require.NoError(t, s.SetTheme(PreferenceDark))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SetTheme(PreferenceLight))

	assert.Equal(t, 1, calls)
}

func TestStore_CloseDetachesPlatform(t *testing.T) {
	platform := newFakePlatform(ModeLight)
	s := NewStore(newFakeKV(), platform)
	require.Equal(t, 1, platform.subscribers())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 0, platform.subscribers())
}

func TestStore_NilPlatformDefaultsLight(t *testing.T) {
	s := NewStore(newFakeKV(), nil)
	defer func() { _ = s.Close() }()

	assert.Equal(t, ModeLight, s.Effective())
}

func TestStore_NilKVKeepsPreferenceInMemory(t *testing.T) {
	s := NewStore(nil, newFakePlatform(ModeDark))

	s.Initialize(context.Background())
	waitReady(t, s)
	assert.Equal(t, PreferenceSystem, s.Preference())

	require.NoError(t, s.SetTheme(PreferenceLight))
	assert.Equal(t, ModeLight, s.Effective())
	require.NoError(t, s.Close())
}

func TestStore_CustomKey(t *testing.T) {
	kv := newFakeKV()
	s := NewStore(kv, nil, WithKey("other"), WithTimeout(time.Second))

	require.NoError(t, s.SetTheme(PreferenceDark))
	require.NoError(t, s.Close())

	v, ok := kv.value("other")
	require.True(t, ok)
	assert.Equal(t, "dark", v)
}
