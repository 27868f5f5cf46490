package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Clone(t *testing.T) {
	s := NewSession("abc")
	s.Messages = append(s.Messages, NewUserMessage("Hello"))
	s.Context["destination"] = "Busan"

	clone := s.Clone()
	clone.Messages = append(clone.Messages, NewAssistantMessage("Hi"))
	clone.Context["destination"] = "Seoul"

	assert.Len(t, s.Messages, 1)
	assert.Equal(t, "Busan", s.Context["destination"])
	assert.Len(t, clone.Messages, 2)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()

	s := NewSession("abc")
	assert.False(t, s.Expired(now), "zero expiry never expires")

	s.ExpiresAt = now.Add(time.Hour)
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}
