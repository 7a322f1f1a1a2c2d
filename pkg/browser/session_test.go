package browser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLastUsedConcurrent(t *testing.T) {
	session := &Session{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				session.UpdateLastUsed()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = session.LastUsed()
			}
		}()
	}
	wg.Wait()

	assert.False(t, session.LastUsed().IsZero())
}
