package rolecache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

func TestSlotEmptyReadsUnknown(t *testing.T) {
	var s Slot
	assert.Equal(t, domainauth.RoleUnknown, s.Read())
}

func TestSlotWriteRead(t *testing.T) {
	s := New()
	s.Write(domainauth.RoleTeacher)
	assert.Equal(t, domainauth.RoleTeacher, s.Read())

	s.Clear()
	assert.Equal(t, domainauth.RoleUnknown, s.Read())
}

func TestSlotNormalizesPoisonedValues(t *testing.T) {
	s := New()
	s.Write(domainauth.Role("superuser"))
	assert.Equal(t, domainauth.RoleUnknown, s.Read())

	s.Write(domainauth.Role("Student"))
	assert.Equal(t, domainauth.RoleStudent, s.Read())
}

func TestSlotConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Write(domainauth.RoleStudent)
				_ = s.Read()
				s.Clear()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, domainauth.RoleUnknown, s.Read())
}
