package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerStateLifecycle(t *testing.T) {
	sm := NewManager()
	const id = int64(42)

	assert.Equal(t, StateNone, sm.GetState(id))

	sm.SetState(id, StateSearchingCourses)
	assert.Equal(t, StateSearchingCourses, sm.GetState(id))

	sm.SetData(id, DataLastQuery, "fluid")
	q, ok := sm.GetString(id, DataLastQuery)
	assert.True(t, ok)
	assert.Equal(t, "fluid", q)

	sm.ResetState(id)
	assert.Equal(t, StateNone, sm.GetState(id))
	q, ok = sm.GetString(id, DataLastQuery)
	assert.True(t, ok, "reset keeps dialog data")
	assert.Equal(t, "fluid", q)

	sm.ClearState(id)
	_, ok = sm.GetData(id, DataLastQuery)
	assert.False(t, ok)
	assert.Nil(t, sm.GetAllData(id))
}

func TestManagerSetStateNoneDropsEntry(t *testing.T) {
	sm := NewManager()

	sm.SetState(1, StateAddingCourse)
	sm.SetState(1, StateNone)
	assert.Nil(t, sm.GetAllData(1))
}

func TestManagerGetStringWrongType(t *testing.T) {
	sm := NewManager()
	sm.SetData(7, "n", 5)

	_, ok := sm.GetString(7, "n")
	assert.False(t, ok)
}

func TestManagerGetAllDataReturnsCopy(t *testing.T) {
	sm := NewManager()
	sm.SetData(3, "k", "v")

	data := sm.GetAllData(3)
	data["k"] = "changed"

	v, _ := sm.GetString(3, "k")
	assert.Equal(t, "v", v)
}

func TestManagerConcurrentAccess(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.SetState(id, StateRemovingCourse)
			sm.SetData(id, DataLastQuery, "x")
			_ = sm.GetState(id)
			sm.ClearState(id)
		}(int64(i % 5))
	}
	wg.Wait()

	for i := int64(0); i < 5; i++ {
		assert.Equal(t, StateNone, sm.GetState(i))
	}
}
