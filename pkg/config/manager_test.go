package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSection is a test implementation of the Section interface
type mockSection struct {
	id          string
	title       string
	description string
	data        map[string]interface{}
	validateErr error
}

func (m *mockSection) ID() string                                { return m.id }
func (m *mockSection) Title() string                             { return m.title }
func (m *mockSection) Description() string                       { return m.description }
func (m *mockSection) Data() map[string]interface{}              { return m.data }
func (m *mockSection) SetData(data map[string]interface{}) error { m.data = data; return nil }
func (m *mockSection) Validate() error                           { return m.validateErr }
func (m *mockSection) Reset()                                    { m.data = make(map[string]interface{}) }

// mockStore is a test implementation of the Store interface
type mockStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saved    bool
}

func newMockStore() *mockStore {
	return &mockStore{
		sections: make(map[string]map[string]interface{}),
	}
}

func (m *mockStore) Load() error { return m.loadErr }
func (m *mockStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = true
	return nil
}

func (m *mockStore) GetSection(sectionID string) (map[string]interface{}, error) {
	if data, exists := m.sections[sectionID]; exists {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (m *mockStore) SetSection(sectionID string, data map[string]interface{}) error {
	m.sections[sectionID] = data
	return nil
}

func (m *mockStore) GetAll() (map[string]map[string]interface{}, error) {
	return m.sections, nil
}

func (m *mockStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func TestNewManager(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store)

	require.NotNil(t, manager)
	assert.Equal(t, Store(store), manager.Store())
	assert.Empty(t, manager.GetSections())
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("registers section successfully", func(t *testing.T) {
		manager := NewManager(newMockStore())
		require.NoError(t, manager.RegisterSection(&mockSection{id: "browser"}))

		retrieved, ok := manager.GetSection("browser")
		require.True(t, ok)
		assert.Equal(t, "browser", retrieved.ID())
	})

	t.Run("prevents duplicate registration", func(t *testing.T) {
		manager := NewManager(newMockStore())
		require.NoError(t, manager.RegisterSection(&mockSection{id: "retry"}))

		err := manager.RegisterSection(&mockSection{id: "retry"})
		assert.Error(t, err)
	})

	t.Run("maintains registration order", func(t *testing.T) {
		manager := NewManager(newMockStore())

		for _, id := range []string{"browser", "workfront", "retry"} {
			require.NoError(t, manager.RegisterSection(&mockSection{id: id}))
		}

		sections := manager.GetSections()
		require.Len(t, sections, 3)
		assert.Equal(t, "browser", sections[0].ID())
		assert.Equal(t, "workfront", sections[1].ID())
		assert.Equal(t, "retry", sections[2].ID())
	})
}

func TestManager_GetSection(t *testing.T) {
	manager := NewManager(newMockStore())
	require.NoError(t, manager.RegisterSection(&mockSection{id: "browser"}))

	_, ok := manager.GetSection("browser")
	assert.True(t, ok)

	_, ok = manager.GetSection("nonexistent")
	assert.False(t, ok)
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("loads all sections from store", func(t *testing.T) {
		store := newMockStore()
		store.sections["workfront"] = map[string]interface{}{"base_url": "https://acme.my.workfront.com"}
		store.sections["retry"] = map[string]interface{}{"attempts": 4}

		manager := NewManager(store)
		wf := &mockSection{id: "workfront", data: make(map[string]interface{})}
		retry := &mockSection{id: "retry", data: make(map[string]interface{})}
		require.NoError(t, manager.RegisterSection(wf))
		require.NoError(t, manager.RegisterSection(retry))

		require.NoError(t, manager.LoadAll())

		assert.Equal(t, "https://acme.my.workfront.com", wf.data["base_url"])
		assert.Equal(t, 4, retry.data["attempts"])
	})

	t.Run("surfaces store load error", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = fmt.Errorf("load error")

		manager := NewManager(store)
		assert.Error(t, manager.LoadAll())
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("saves all sections to store", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)

		section := &mockSection{
			id:   "browser",
			data: map[string]interface{}{"headless": true},
		}
		require.NoError(t, manager.RegisterSection(section))

		require.NoError(t, manager.SaveAll())
		assert.True(t, store.saved)
		assert.Equal(t, true, store.sections["browser"]["headless"])
	})

	t.Run("validates sections before saving", func(t *testing.T) {
		store := newMockStore()
		manager := NewManager(store)

		section := &mockSection{
			id:          "retry",
			data:        map[string]interface{}{"attempts": 0},
			validateErr: fmt.Errorf("attempts must be at least 1"),
		}
		require.NoError(t, manager.RegisterSection(section))

		assert.Error(t, manager.SaveAll())
		assert.False(t, store.saved, "invalid config must not reach disk")
	})

	t.Run("surfaces store save error", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = fmt.Errorf("save error")

		manager := NewManager(store)
		require.NoError(t, manager.RegisterSection(&mockSection{id: "browser", data: map[string]interface{}{}}))

		assert.Error(t, manager.SaveAll())
	})
}
