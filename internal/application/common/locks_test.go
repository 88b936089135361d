package common_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
)

func TestGameLockRegistry_SerializesPerGame(t *testing.T) {
	registry := common.NewGameLockRegistry()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := registry.Lock("GAME1234")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestGameLockRegistry_IndependentGamesDoNotBlock(t *testing.T) {
	registry := common.NewGameLockRegistry()

	unlockA := registry.Lock("GAME-A")
	defer unlockA()

	// Holding A must not prevent taking B.
	done := make(chan struct{})
	go func() {
		unlockB := registry.Lock("GAME-B")
		unlockB()
		close(done)
	}()

	<-done
}
